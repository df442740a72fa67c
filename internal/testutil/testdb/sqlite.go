package testdb

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

// NewSQLite opens a private in-memory database with every table migrated.
// The pool is pinned to one connection so all statements see the same database.
func NewSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&academicsDatamodel.Department{},
		&userDatamodel.User{},
		&academicsDatamodel.Course{},
		&requestDatamodel.Request{},
		&requestDatamodel.RequestComment{},
		&notificationDatamodel.Notification{},
		&feedbackDatamodel.Feedback{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// SQLX wraps the connection pool behind db for raw queries.
func SQLX(db *gorm.DB) *sqlx.DB {
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3")
}
