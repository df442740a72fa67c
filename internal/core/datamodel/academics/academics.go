package academics

import (
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type Department struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;size:100;uniqueIndex;not null"`
}

func (Department) TableName() string {
	return "departments"
}

type Course struct {
	ID           int64                `gorm:"primaryKey"`
	DepartmentID int64                `gorm:"column:department_id;not null;index"`
	Code         string               `gorm:"column:code;size:20;uniqueIndex;not null"`
	Name         string               `gorm:"column:name;size:150;not null"`
	Department   *Department          `gorm:"foreignKey:DepartmentID"`
	Lecturers    []userDatamodel.User `gorm:"many2many:course_lecturers;joinForeignKey:CourseID;joinReferences:UserID"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseLecturer is the join row between courses and lecturers.
type CourseLecturer struct {
	CourseID int64 `gorm:"column:course_id;primaryKey"`
	UserID   int64 `gorm:"column:user_id;primaryKey"`
}

func (CourseLecturer) TableName() string {
	return "course_lecturers"
}
