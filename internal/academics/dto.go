package academics

import (
	"strings"

	"github.com/frahmantamala/academic-requests/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name string `json:"name"`
}

func (d CreateDepartmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CreateCourseDTO struct {
	Department int64  `json:"department"`
	Code       string `json:"code"`
	Name       string `json:"name"`
}

func (d CreateCourseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("department", d.Department).Required()
	v.Field("code", strings.TrimSpace(d.Code)).Required().MaxLength(20)
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(150)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
