package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municore/internal/core/apperror"
)

// memUserRepo is an in-memory user store.
type memUserRepo struct {
	nextID int64
	users  map[int64]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*User)}
}

func (r *memUserRepo) Create(_ context.Context, user *User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return apperror.NewConflict("username already taken")
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user", id)
	}
	return u, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *memUserRepo) Update(_ context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperror.NewNotFound("user", user.ID)
	}
	r.users[user.ID] = user
	return nil
}

func newTestAuth() (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	return NewService(repo, NewJWTService(DefaultJWTConfig("test-secret"))), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)
	assert.Equal(t, RoleClerk, user.Role)
	assert.NotEqual(t, "str0ngPass!", user.PasswordHash)

	token, err := svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "str0ngPass!"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newTestAuth()

	_, err := svc.Register(context.Background(), "clerk.ruiz", "ruiz@municore.io", "short", 7)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "wrong"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)

	assert.Equal(t, 1, repo.users[user.ID].FailedLoginAttempts)
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	svc, _ := newTestAuth()

	_, err := svc.Login(context.Background(), Credentials{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid credentials", appErr.Message)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	_, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)

	for i := 0; i < maxFailedAttempts; i++ {
		_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "wrong"})
		require.Error(t, err)
	}

	// Even the right password is refused while locked.
	_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "str0ngPass!"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestLoginResetsFailureCounter(t *testing.T) {
	svc, repo := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "wrong"})
	require.Error(t, err)

	_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "str0ngPass!"})
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.Equal(t, 0, stored.FailedLoginAttempts)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestSetRole(t *testing.T) {
	svc, _ := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)

	promoted, err := svc.SetRole(ctx, user.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)
	assert.True(t, promoted.IsAdmin)

	demoted, err := svc.SetRole(ctx, user.ID, RoleManager)
	require.NoError(t, err)
	assert.Equal(t, RoleManager, demoted.Role)
	assert.False(t, demoted.IsAdmin)
}

func TestDisabledAccountCannotLogin(t *testing.T) {
	svc, repo := newTestAuth()
	ctx := context.Background()

	user, err := svc.Register(ctx, "clerk.ruiz", "ruiz@municore.io", "str0ngPass!", 7)
	require.NoError(t, err)
	repo.users[user.ID].IsActive = false

	_, err = svc.Login(ctx, Credentials{Username: "clerk.ruiz", Password: "str0ngPass!"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}
