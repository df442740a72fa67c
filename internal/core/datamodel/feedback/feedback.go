package feedback

import (
	"time"

	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type Feedback struct {
	ID          int64               `gorm:"primaryKey"`
	UserID      int64               `gorm:"column:user_id;not null;index"`
	Rating      int                 `gorm:"column:rating;not null"`
	Comment     string              `gorm:"column:comment;type:text;not null"`
	Category    string              `gorm:"column:category;size:50;not null"`
	IsAnonymous bool                `gorm:"column:is_anonymous;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	User        *userDatamodel.User `gorm:"foreignKey:UserID"`
}

func (Feedback) TableName() string {
	return "feedback"
}
