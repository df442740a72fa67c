package feedback

import (
	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/core/common/validation"
)

type SubmitFeedbackDTO struct {
	UserID      *int64 `json:"user_id"`
	Rating      *int64 `json:"rating"`
	Comment     string `json:"comment"`
	Category    string `json:"category"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (d SubmitFeedbackDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", d.UserID).Required()
	if d.Rating == nil {
		v.Field("rating", d.Rating).Required()
	} else {
		v.Field("rating", *d.Rating).IntRange(MinRating, MaxRating, internal.ErrCodeInvalidRating)
	}
	v.Field("comment", d.Comment).Required()
	v.Field("category", d.Category).OneOf(internal.ErrCodeInvalidCategory,
		string(CategoryWebsite), string(CategoryProcess), string(CategoryGeneral))

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
