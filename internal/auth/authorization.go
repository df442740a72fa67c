package auth

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

// ResourceLoader resolves the ownership attributes of the resource addressed
// by the current request.
type ResourceLoader func(r *http.Request) (policy.Resource, error)

// Authorizer turns policy decisions into chi middleware.
type Authorizer struct {
	*transport.BaseHandler
	policy *policy.Policy
	db     *sqlx.DB
}

func NewAuthorizer(p *policy.Policy, db *sqlx.DB, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		BaseHandler: transport.NewBaseHandler(logger),
		policy:      p,
		db:          db,
	}
}

// Require checks a capability that does not depend on a resource.
func (a *Authorizer) Require(c policy.Capability) func(http.Handler) http.Handler {
	return a.RequireOn(c, func(*http.Request) (policy.Resource, error) {
		return policy.Resource{}, nil
	})
}

// RequireSelf treats the user id in URL parameter param as the resource owner.
func (a *Authorizer) RequireSelf(c policy.Capability, param string) func(http.Handler) http.Handler {
	return a.RequireOn(c, func(r *http.Request) (policy.Resource, error) {
		id, err := a.PathInt64(r, param)
		if err != nil {
			return policy.Resource{}, err
		}
		return policy.Resource{OwnerID: id}, nil
	})
}

// RequireOnRequest loads the owning student and assigned lecturer of the
// request named by the {id} URL parameter.
func (a *Authorizer) RequireOnRequest(c policy.Capability) func(http.Handler) http.Handler {
	return a.RequireOn(c, func(r *http.Request) (policy.Resource, error) {
		id, err := a.PathInt64(r, "id")
		if err != nil {
			return policy.Resource{}, err
		}
		return a.requestOwnership(r.Context(), id)
	})
}

func (a *Authorizer) RequireOn(c policy.Capability, load ResourceLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				a.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			res, err := load(r)
			if err != nil {
				a.HandleServiceError(w, r, err)
				return
			}

			if err := a.policy.Authorize(u.Actor(), c, res); err != nil {
				a.Logger.WarnContext(r.Context(), "access denied",
					"user_id", u.ID,
					"role", u.Role,
					"capability", c)
				a.HandleServiceError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type requestOwnershipRow struct {
	StudentID          int64         `db:"student_id"`
	AssignedLecturerID sql.NullInt64 `db:"assigned_lecturer_id"`
}

func (a *Authorizer) requestOwnership(ctx context.Context, requestID int64) (policy.Resource, error) {
	var row requestOwnershipRow
	query := a.db.Rebind(`SELECT student_id, assigned_lecturer_id FROM requests WHERE id = ?`)
	if err := a.db.GetContext(ctx, &row, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return policy.Resource{}, internal.ErrRequestNotFound
		}
		return policy.Resource{}, internal.NewInternalError("failed to load request ownership", err)
	}
	return policy.Resource{OwnerID: row.StudentID, AssigneeID: row.AssignedLecturerID.Int64}, nil
}
