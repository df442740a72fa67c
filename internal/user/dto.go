package user

import (
	"bytes"
	"encoding/json"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/core/common/validation"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

var roleValues = []string{string(policy.RoleStudent), string(policy.RoleLecturer), string(policy.RoleAdmin)}

type RegisterDTO struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Role        string  `json:"role"`
	Department  *int64  `json:"department"`
	PhoneNumber string  `json:"phone_number"`
	IDNumber    *string `json:"id_number"`
	IsApproved  *bool   `json:"is_approved"`
}

func (d *RegisterDTO) Validate() error {
	if d.Role == "" {
		d.Role = string(policy.RoleStudent)
	}

	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MaxLength(150)
	v.Field("last_name", d.LastName).Required().MaxLength(150)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	v.Field("role", d.Role).OneOf(internal.ErrCodeInvalidRole, roleValues...)
	v.Field("phone_number", d.PhoneNumber).MaxLength(15)
	if d.IDNumber != nil {
		v.Field("id_number", *d.IDNumber).MaxLength(9)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// NullableID distinguishes an absent JSON field from an explicit null.
type NullableID struct {
	Set   bool
	Value *int64
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// UpdateProfileDTO is a partial update; nil fields are left unchanged.
type UpdateProfileDTO struct {
	FullName    *string    `json:"full_name"`
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	Email       *string    `json:"email"`
	IDNumber    *string    `json:"id_number"`
	Role        *string    `json:"role"`
	Department  NullableID `json:"department"`
	PhoneNumber *string    `json:"phone_number"`
	IsApproved  *bool      `json:"is_approved"`
}

func (d UpdateProfileDTO) Validate() error {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", *d.Email).Required().Email()
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().OneOf(internal.ErrCodeInvalidRole, roleValues...)
	}
	if d.PhoneNumber != nil {
		v.Field("phone_number", *d.PhoneNumber).MaxLength(15)
	}
	if d.IDNumber != nil {
		v.Field("id_number", *d.IDNumber).MaxLength(9)
	}
	if d.FullName != nil {
		v.Field("full_name", *d.FullName).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AssignCoursesDTO struct {
	CourseIDs []int64 `json:"course_ids"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

type AssignCoursesResponse struct {
	Success bool    `json:"success"`
	Courses []int64 `json:"courses"`
}
