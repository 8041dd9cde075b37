package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
	"github.com/stwalsh4118/civitas/api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(repo *repository.Repository) (AuthService, *token.Manager) {
	tokens := token.NewManager("test-secret", time.Hour)
	svc := NewAuthService(repo, tokens, token.NewDenylist(nil), logger.New("test"))
	return svc, tokens
}

func TestRegister(t *testing.T) {
	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)

	user, err := svc.Register(context.Background(), "Jane Roe", "Jane.Roe@Example.com ", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "Jane Roe", user.Name)
	assert.Equal(t, "jane.roe@example.com", user.Email, "Email is normalized")
	assert.Equal(t, models.RoleCitizen, user.Role, "Registration only ever grants citizen")

	repo.View(func(doc *models.Document) {
		stored := doc.UserByEmail("jane.roe@example.com")
		require.NotNil(t, stored)
		assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	})

	assert.Equal(t, 1, countAudit(repo, models.AuditRegister))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Impostor", "citizen@example.com", "whatever")
	assert.ErrorIs(t, err, ErrEmailTaken)

	repo.View(func(doc *models.Document) {
		assert.Len(t, doc.Users, 3, "Rejected registration creates no record")
	})
	assert.Equal(t, 0, countAudit(repo, models.AuditRegister))
}

func TestLogin(t *testing.T) {
	repo := newTestRepo(t)
	svc, tokens := newAuthService(repo)

	session, err := svc.Login(context.Background(), "admin@municipal.gov", "password")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.Equal(t, "admin@municipal.gov", session.User.Email)

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID, "Token carries a unique revocation ID")

	assert.Equal(t, 1, countAudit(repo, models.AuditLogin))
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newTestRepo(t)
	svc, _ := newAuthService(repo)
	ctx := context.Background()

	// Wrong password and unknown email fail identically
	_, err := svc.Login(ctx, "admin@municipal.gov", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Equal(t, 0, countAudit(repo, models.AuditLogin))
}

func TestLogout(t *testing.T) {
	repo := newTestRepo(t)
	svc, tokens := newAuthService(repo)
	ctx := context.Background()

	session, err := svc.Login(ctx, "citizen@example.com", "password")
	require.NoError(t, err)

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	assert.Equal(t, 1, countAudit(repo, models.AuditLogout))

	assert.ErrorIs(t, svc.Logout(ctx, nil), ErrInvalidCredentials)
}
