package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/academic-requests/internal"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/core/events"
)

const (
	resetTokenLength = 50
	resetTokenTTL    = 24 * time.Hour
	resetTokenChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	SetResetToken(ctx context.Context, userID int64, token string, createdAt time.Time) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type Options struct {
	BCryptCost  int
	FrontendURL string
}

type Service struct {
	repo        Repository
	tokens      TokenGenerator
	publisher   events.Publisher
	bcryptCost  int
	frontendURL string
	logger      *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, publisher events.Publisher, opts Options, logger *slog.Logger) *Service {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:        repo,
		tokens:      tokens,
		publisher:   publisher,
		bcryptCost:  opts.BCryptCost,
		frontendURL: strings.TrimRight(opts.FrontendURL, "/"),
		logger:      logger,
	}
}

// Authenticate checks the credentials and issues a token pair. An unknown
// email is NotFound; a wrong password is Unauthorized.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(dto.Email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected", "user_id", u.ID, "reason", "password mismatch")
		return nil, internal.ErrInvalidCredentials
	}

	tokens, err := s.issue(FromDataModel(u))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResult{
		AuthTokens:       tokens,
		Message:          "התחברת בהצלחה!",
		ID:               u.ID,
		FullName:         u.FullName(),
		Email:            u.Email,
		Role:             u.Role,
		Department:       u.DepartmentID,
		PhoneNumber:      u.PhoneNumber,
		RegistrationDate: u.DateJoined,
	}, nil
}

// RefreshTokens validates the refresh token and rotates the pair.
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	claims, err := s.tokens.ValidateRefreshToken(dto.RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		return AuthTokens{}, err
	}

	return s.issue(FromDataModel(u))
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

// GetPrincipal loads the current state of the user behind a token.
func (s *Service) GetPrincipal(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(dto.Email))
	if err != nil {
		return err
	}

	token, err := GenerateRandomToken(resetTokenLength)
	if err != nil {
		return internal.NewInternalError("failed to generate reset token", err)
	}

	if err := s.repo.SetResetToken(ctx, u.ID, token, time.Now()); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%d/%s", s.frontendURL, u.ID, token)
	s.publish(ctx, events.NewPasswordResetRequestedEvent(u.ID, u.Email, link))

	s.logger.Info("password reset requested", "user_id", u.ID)
	return nil
}

// ResetPassword replaces the password when token matches the stored reset
// token. Any mismatch, including an unknown user, is reported the same way.
func (s *Service) ResetPassword(ctx context.Context, userID int64, token string, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrInvalidResetToken
		}
		return err
	}

	if u.ResetToken == nil || token == "" ||
		subtle.ConstantTimeCompare([]byte(*u.ResetToken), []byte(token)) != 1 {
		return internal.ErrInvalidResetToken
	}
	if u.ResetTokenCreatedAt != nil && time.Since(*u.ResetTokenCreatedAt) > resetTokenTTL {
		return internal.ErrInvalidResetToken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", u.ID)
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.OldPassword)); err != nil {
		return internal.NewValidationError("current password is incorrect", internal.ErrCodeInvalidCredentials)
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password changed", "user_id", u.ID)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", internal.NewInternalError("failed to hash password", err)
	}
	return string(hash), nil
}

// GenerateRandomToken returns n characters drawn uniformly from [a-zA-Z0-9].
func GenerateRandomToken(n int) (string, error) {
	limit := big.NewInt(int64(len(resetTokenChars)))
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(resetTokenChars[idx.Int64()])
	}
	return sb.String(), nil
}

func (s *Service) issue(u *User) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(u)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
