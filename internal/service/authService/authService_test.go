package authService

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sebastiangueler-commits/cARTE/config"
	"github.com/sebastiangueler-commits/cARTE/data/repository/memory"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost

	store := memory.New()
	return New(store, cfg), store
}

func TestRegisterAndLogin(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	token, user, err := s.Register(ctx, RegisterInput{Email: " Ann@Example.com ", Password: "secret1", FirstName: "Ann"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)

	requester, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.Requester{UserID: user.ID, Role: model.RoleUser}, requester)

	_, _, err = s.Register(ctx, RegisterInput{Email: "ann@example.com", Password: "other"})
	assert.ErrorIs(t, err, service.ErrAlreadyExists)

	_, _, err = s.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = s.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	token, loggedIn, err := s.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	activity, err := store.GetActivity(ctx, user.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, model.ActionLogin, activity[0].Action)
	assert.Equal(t, model.ActionRegister, activity[1].Action)
}

func TestParseToken_Rejects(t *testing.T) {
	s, _ := newTestService(t)

	expired := &AuthService{secret: s.secret, tokenTTL: time.Hour, now: func() time.Time { return time.Now().Add(-2 * time.Hour) }}
	expiredToken, err := expired.IssueToken(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	other := &AuthService{secret: []byte("other"), tokenTTL: time.Hour, now: time.Now}
	foreignToken, err := other.IssueToken(model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "user"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRoleToken, err := s.IssueToken(model.User{ID: 1, Role: "root"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":  "not-a-token",
		"expired":  expiredToken,
		"foreign":  foreignToken,
		"none alg": noneToken,
		"bad role": badRoleToken,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.ParseToken(token)
			assert.ErrorIs(t, err, service.ErrUnauthorized)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "", ""))

	require.NoError(t, s.EnsureAdmin(ctx, "admin@carte.io", "adminpass"))
	admin, err := store.GetUserByEmail(ctx, "admin@carte.io")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	require.NoError(t, s.EnsureAdmin(ctx, "admin@carte.io", "adminpass"))

	_, user, err := s.Register(ctx, RegisterInput{Email: "ann@x.io", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, s.EnsureAdmin(ctx, "ann@x.io", "whatever"))
	promoted, err := s.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
}

func TestMe_NotFound(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Me(context.Background(), 42)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
