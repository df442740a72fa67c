package user

import "time"

type User struct {
	ID                  int64      `gorm:"primaryKey"`
	Username            string     `gorm:"column:username;uniqueIndex;not null"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	FirstName           string     `gorm:"column:first_name;size:150"`
	LastName            string     `gorm:"column:last_name;size:150"`
	Role                string     `gorm:"column:role;size:20;not null"`
	DepartmentID        *int64     `gorm:"column:department_id;index"`
	PhoneNumber         string     `gorm:"column:phone_number;size:15"`
	IsApproved          bool       `gorm:"column:is_approved;not null"`
	IDNumber            *string    `gorm:"column:id_number;size:9;uniqueIndex"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	ResetToken          *string    `gorm:"column:reset_token;size:100"`
	ResetTokenCreatedAt *time.Time `gorm:"column:reset_token_created_at"`
	DateJoined          time.Time  `gorm:"column:date_joined;autoCreateTime"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
