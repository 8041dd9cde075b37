package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
	"github.com/stwalsh4118/civitas/api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Session is the result of a successful login: the signed token and the
// credential-free profile it belongs to.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService defines registration and session logic. Credentials are
// bcrypt-hashed before they ever reach the document; plaintext passwords are
// never persisted or logged.
type AuthService interface {
	// Register creates a citizen account. Registration never grants any
	// other role. Fails with ErrEmailTaken without creating a record if
	// the email is in use.
	Register(ctx context.Context, name, email, password string) (*models.PublicUser, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Logout audits the logout and revokes the session token so it is
	// rejected for the rest of its lifetime (when a denylist is configured).
	Logout(ctx context.Context, claims *token.Claims) error
}

type authService struct {
	repo     *repository.Repository
	tokens   *token.Manager
	denylist *token.Denylist
	log      *logger.Logger
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(repo *repository.Repository, tokens *token.Manager, denylist *token.Denylist, log *logger.Logger) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		denylist: denylist,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*models.PublicUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleCitizen,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.repo.Update(ctx, func(doc *models.Document) error {
		if doc.UserByEmail(email) != nil {
			return ErrEmailTaken
		}
		doc.Users = append(doc.Users, user)
		doc.AppendAudit(models.AuditRegister, map[string]string{
			"user_id": user.ID,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			s.log.Warn("Duplicate registration rejected", map[string]interface{}{
				"email": email,
			})
			return nil, err
		}
		s.log.Error("Failed to register user", err, nil)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	public := user.Public()
	return &public, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user *models.User
	s.repo.View(func(doc *models.Document) {
		if u := doc.UserByEmail(email); u != nil {
			copied := *u
			user = &copied
		}
	})
	// Compare against a throwaway hash when the user is missing so a login
	// probe cannot distinguish unknown emails by response time.
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(password),
		)
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		s.log.Error("Failed to issue session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	err = s.repo.Update(ctx, func(doc *models.Document) error {
		doc.AppendAudit(models.AuditLogin, map[string]string{
			"user_id": user.ID,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	s.log.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	return &Session{Token: signed, User: user.Public()}, nil
}

func (s *authService) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil {
		return ErrInvalidCredentials
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.log.Warn("Failed to revoke session token", map[string]interface{}{
			"user_id": claims.UserID,
			"error":   err.Error(),
		})
	}

	err := s.repo.Update(ctx, func(doc *models.Document) error {
		doc.AppendAudit(models.AuditLogout, map[string]string{
			"user_id": claims.UserID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record logout: %w", err)
	}

	s.log.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
