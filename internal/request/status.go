package request

import (
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

var statusDisplay = map[Status]string{
	StatusPending:    "ממתין",
	StatusInProgress: "בטיפול",
	StatusApproved:   "אושר",
	StatusRejected:   "נדחה",
}

// Display returns the localized label, or the raw value for unknown keys.
func (s Status) Display() string {
	if d, ok := statusDisplay[s]; ok {
		return d
	}
	return string(s)
}

// ParseDisplayStatus maps a localized label back to its status. Empty and
// unrecognized labels are rejected.
func ParseDisplayStatus(display string) (Status, error) {
	display = strings.TrimSpace(display)
	if display == "" {
		return "", internal.ErrInvalidStatus.WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
			{Field: "status", Message: "status is required", Code: string(internal.ErrCodeInvalidStatus)},
		}})
	}
	for s, d := range statusDisplay {
		if d == display {
			return s, nil
		}
	}
	return "", internal.ErrInvalidStatus.WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
		{Field: "status", Message: "unknown status: " + display, Code: string(internal.ErrCodeInvalidStatus)},
	}})
}

type Type string

const (
	TypeAppeal    Type = "appeal"
	TypeExemption Type = "exemption"
	TypeMilitary  Type = "military"
	TypeOther     Type = "other"
)

var typeDisplay = map[Type]string{
	TypeAppeal:    "ערעור",
	TypeExemption: "פטור",
	TypeMilitary:  "מילואים",
	TypeOther:     "אחר",
}

func (t Type) Display() string {
	if d, ok := typeDisplay[t]; ok {
		return d
	}
	return string(t)
}

func (t Type) Valid() bool {
	_, ok := typeDisplay[t]
	return ok
}

// ParseType defaults an empty value to other.
func ParseType(raw string) (Type, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TypeOther, nil
	}
	t := Type(raw)
	if !t.Valid() {
		return "", internal.NewValidationFieldError("request_type", "unknown request type: "+raw, internal.ErrCodeInvalidRequestType)
	}
	return t, nil
}
