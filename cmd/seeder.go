package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db, false)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedData(gdb); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(gdb); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
		fmt.Println("Database seeded successfully")
	},
}

// clearSeedData empties tables children first so foreign keys hold.
func clearSeedData(gdb *gorm.DB) error {
	tables := []string{
		"feedback", "notifications", "request_comments", "requests",
		"course_lecturers", "courses", "users", "departments",
	}
	for _, t := range tables {
		if err := gdb.Exec("DELETE FROM " + t).Error; err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}
	return nil
}

type seedUser struct {
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Role       string
	Department string
	IDNumber   string
}

func seed(gdb *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	departments := map[string]*academicsDatamodel.Department{}
	for _, name := range []string{"מדעי המחשב", "הנדסת תוכנה", "מתמטיקה"} {
		d := academicsDatamodel.Department{Name: name}
		if err := gdb.Where(academicsDatamodel.Department{Name: name}).FirstOrCreate(&d).Error; err != nil {
			return fmt.Errorf("seed department %s: %w", name, err)
		}
		departments[name] = &d
		fmt.Printf("Seeded department: %s\n", name)
	}

	users := []seedUser{
		{"admin", "admin@academic.local", "מנהל", "מערכת", "admin", "מדעי המחשב", ""},
		{"lecturer", "lecturer@academic.local", "דנה", "כהן", "lecturer", "מדעי המחשב", ""},
		{"student", "student@academic.local", "יוסי", "לוי", "student", "מדעי המחשב", "123456782"},
	}
	seeded := map[string]*userDatamodel.User{}
	for _, su := range users {
		u := userDatamodel.User{
			Username:     su.Username,
			Email:        su.Email,
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			Role:         su.Role,
			DepartmentID: &departments[su.Department].ID,
			IsApproved:   true,
			PasswordHash: string(hash),
		}
		if su.IDNumber != "" {
			id := su.IDNumber
			u.IDNumber = &id
		}
		if err := gdb.Where(userDatamodel.User{Email: su.Email}).FirstOrCreate(&u).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", su.Email, err)
		}
		seeded[su.Role] = &u
		fmt.Printf("Seeded %s user: %s\n", su.Role, su.Email)
	}

	course := academicsDatamodel.Course{
		DepartmentID: departments["מדעי המחשב"].ID,
		Code:         "CS101",
		Name:         "מבוא למדעי המחשב",
	}
	if err := gdb.Where(academicsDatamodel.Course{Code: course.Code}).FirstOrCreate(&course).Error; err != nil {
		return fmt.Errorf("seed course: %w", err)
	}
	link := academicsDatamodel.CourseLecturer{CourseID: course.ID, UserID: seeded["lecturer"].ID}
	if err := gdb.Where(link).FirstOrCreate(&link).Error; err != nil {
		return fmt.Errorf("assign lecturer: %w", err)
	}

	var count int64
	if err := gdb.Model(&requestDatamodel.Request{}).Where("student_id = ?", seeded["student"].ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		fmt.Println("Sample requests already present")
		return nil
	}

	student, lecturer := seeded["student"], seeded["lecturer"]
	return gdb.Transaction(func(tx *gorm.DB) error {
		requests := []*requestDatamodel.Request{
			{StudentID: student.ID, RequestType: "appeal", Subject: "ערעור על ציון במבחן", Description: "אבקש בדיקה חוזרת של המבחן.", Status: "pending", AssignedLecturerID: &lecturer.ID},
			{StudentID: student.ID, RequestType: "military", Subject: "מילואים", Description: "שירות מילואים בתקופת המבחנים.", Status: "in_progress"},
		}
		if err := tx.Omit("Student", "AssignedLecturer").Create(&requests).Error; err != nil {
			return fmt.Errorf("seed requests: %w", err)
		}
		if err := tx.Omit("Author").Create(&requestDatamodel.RequestComment{
			RequestID: requests[0].ID,
			AuthorID:  lecturer.ID,
			Content:   "הבקשה התקבלה ותיבדק בימים הקרובים.",
		}).Error; err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
		if err := tx.Create(&notificationDatamodel.Notification{
			UserID:  student.ID,
			Message: "הבקשה שלך בנושא 'מילואים' עודכנה לסטטוס: בטיפול",
		}).Error; err != nil {
			return fmt.Errorf("seed notification: %w", err)
		}
		if err := tx.Omit("User").Create(&feedbackDatamodel.Feedback{
			UserID:   student.ID,
			Rating:   5,
			Comment:  "מערכת נוחה ומהירה",
			Category: "website",
		}).Error; err != nil {
			return fmt.Errorf("seed feedback: %w", err)
		}
		fmt.Printf("Seeded %d sample requests\n", len(requests))
		return nil
	})
}
