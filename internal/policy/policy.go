// Package policy decides whether an actor may use a capability on a resource.
// Rules are keyed by capability and evaluated against the actor's role and
// the resource's ownership attributes.
package policy

import (
	"fmt"

	"github.com/frahmantamala/academic-requests/internal"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

type Capability string

const (
	RequestCreate       Capability = "request.create"
	RequestView         Capability = "request.view"
	RequestManage       Capability = "request.manage"
	RequestUpdateStatus Capability = "request.update_status"
	RequestComment      Capability = "request.comment"
	NotificationRead    Capability = "notification.read"
	FeedbackSubmit      Capability = "feedback.submit"
	FeedbackAdmin       Capability = "feedback.admin"
	UserUpdate          Capability = "user.update"
	UserAdmin           Capability = "user.admin"
	CatalogAdmin        Capability = "catalog.admin"
	ReportExport        Capability = "report.export"
)

// Actor is the acting user as seen by the policy.
type Actor struct {
	ID           int64
	Role         Role
	DepartmentID *int64
}

// Resource carries the ownership attributes a rule may inspect. Zero ids mean
// "not applicable".
type Resource struct {
	OwnerID    int64
	AssigneeID int64
}

func (r Resource) ownedBy(a Actor) bool {
	return r.OwnerID != 0 && r.OwnerID == a.ID
}

func (r Resource) assignedTo(a Actor) bool {
	return r.AssigneeID != 0 && r.AssigneeID == a.ID
}

type Rule func(a Actor, r Resource) bool

type Policy struct {
	rules map[Capability]Rule
}

// New returns the application's policy.
func New() *Policy {
	isAdmin := func(a Actor, _ Resource) bool { return a.Role == RoleAdmin }

	return &Policy{rules: map[Capability]Rule{
		RequestCreate: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || (a.Role == RoleStudent && r.ownedBy(a))
		},
		RequestView: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || r.ownedBy(a) || r.assignedTo(a)
		},
		RequestManage: func(a Actor, _ Resource) bool {
			return a.Role == RoleAdmin || a.Role == RoleLecturer
		},
		RequestUpdateStatus: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || (a.Role == RoleLecturer && r.assignedTo(a))
		},
		RequestComment: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || r.ownedBy(a) || r.assignedTo(a)
		},
		NotificationRead: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || r.ownedBy(a)
		},
		FeedbackSubmit: func(a Actor, r Resource) bool {
			return r.ownedBy(a)
		},
		UserUpdate: func(a Actor, r Resource) bool {
			return a.Role == RoleAdmin || r.ownedBy(a)
		},
		FeedbackAdmin: isAdmin,
		UserAdmin:     isAdmin,
		CatalogAdmin:  isAdmin,
		ReportExport:  isAdmin,
	}}
}

// Allowed reports whether a may use c on r. Unknown capabilities are denied.
func (p *Policy) Allowed(a Actor, c Capability, r Resource) bool {
	rule, ok := p.rules[c]
	if !ok || a.ID == 0 {
		return false
	}
	return rule(a, r)
}

// Authorize is Allowed returning ErrPermissionDenied on refusal.
func (p *Policy) Authorize(a Actor, c Capability, r Resource) error {
	if p.Allowed(a, c, r) {
		return nil
	}
	return internal.ErrPermissionDenied.WithDetails(map[string]string{
		"capability": string(c),
		"actor":      fmt.Sprintf("%d:%s", a.ID, a.Role),
	})
}
