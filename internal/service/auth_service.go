package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"donatehub/api/internal/apperr"
	"donatehub/api/internal/config"
	"donatehub/api/internal/ids"
	"donatehub/api/internal/models"
	"donatehub/api/internal/repository"
	"donatehub/api/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	FindByTokenHash(ctx context.Context, tokenHash []byte) (models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	Touch(ctx context.Context, sessionID string, ip string, userAgent string) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
}

type AuthResult struct {
	User  models.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	fields := apperr.FieldErrors{}
	if input.Name == "" {
		fields.Add("name", "name is required")
	} else if len(input.Name) > 255 {
		fields.Add("name", "name must be at most 255 characters")
	}
	if input.Email == "" {
		fields.Add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		fields.Add("email", "email must be a valid email address")
	} else if len(input.Email) > 255 {
		fields.Add("email", "email must be at most 255 characters")
	}
	if len(input.Password) < 6 {
		fields.Add("password", "password must be at least 6 characters")
	}
	if !models.UserRole(input.Role).Valid() {
		fields.Add("role", "role must be either donor or recipient")
	}
	if len(input.Phone) > 15 {
		fields.Add("phone", "phone must be at most 15 characters")
	}
	if len(fields) > 0 {
		return AuthResult{}, apperr.Validation(fields)
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		fields.Add("email", "email has already been taken")
		return AuthResult{}, apperr.Validation(fields)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRole(input.Role),
		Phone:        phone,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return s.issueSession(ctx, user, "", "")
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// Login verifies credentials and swaps every existing session for one
// fresh token. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperr.Auth("Invalid credentials")
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, apperr.Auth("Invalid credentials")
	}

	if err := s.sessions.DeleteByUser(ctx, user.ID); err != nil {
		return AuthResult{}, fmt.Errorf("revoke previous sessions: %w", err)
	}

	return s.issueSession(ctx, user, input.IPAddress, input.UserAgent)
}

func (s *AuthService) issueSession(ctx context.Context, user models.User, ip string, userAgent string) (AuthResult, error) {
	token, tokenHash, err := security.GenerateSessionToken(48)
	if err != nil {
		return AuthResult{}, err
	}

	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().Add(s.cfg.Auth.SessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to its user. Pure lookup: no
// state is touched, so it is safe to call before any business logic.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, models.Session, error) {
	if token == "" {
		return models.User{}, models.Session{}, apperr.Auth("Unauthenticated")
	}

	session, err := s.sessions.FindByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, models.Session{}, apperr.Auth("Unauthenticated")
		}
		return models.User{}, models.Session{}, err
	}

	if session.Expired(time.Now()) {
		return models.User{}, models.Session{}, apperr.Auth("Unauthenticated")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, models.Session{}, apperr.Auth("Unauthenticated")
		}
		return models.User{}, models.Session{}, err
	}

	return user, session, nil
}

// TouchSession records session activity; callers treat failure as
// non-fatal.
func (s *AuthService) TouchSession(ctx context.Context, sessionID string, ip string, userAgent string) error {
	return s.sessions.Touch(ctx, sessionID, ip, userAgent)
}

// Logout revokes exactly the presented session. A session that is
// already gone is an error, not a silent success.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
