package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

// User is the authenticated principal attached to a request context.
type User struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Role         policy.Role `json:"role"`
	DepartmentID *int64      `json:"department"`
	IsApproved   bool        `json:"is_approved"`
}

func (u *User) Actor() policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

func (u *User) IsAdmin() bool {
	return u.Role == policy.RoleAdmin
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         policy.Role(u.Role),
		DepartmentID: u.DepartmentID,
		IsApproved:   u.IsApproved,
	}
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is the login response: the token pair plus the caller's profile.
type LoginResult struct {
	AuthTokens
	Message          string    `json:"message"`
	ID               int64     `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	Department       *int64    `json:"department"`
	PhoneNumber      string    `json:"phone_number"`
	RegistrationDate time.Time `json:"registration_date"`
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies access and refresh tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *User) (string, error)
	GenerateRefreshToken(u *User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
