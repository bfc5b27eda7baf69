package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopline/shop-backend/internal/app/repository"
	"github.com/shopline/shop-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type fakeRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (f *fakeRevoker) BlacklistToken(_ context.Context, token string, expiry time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[token] = expiry
	return nil
}

func setupAuthServiceTest(t *testing.T, revoker TokenRevoker) AuthService {
	testDB := setupServiceTestDB(t)

	return NewAuthService(
		repository.NewUserRepository(testDB),
		revoker,
		testJWTSecret,
		15*time.Minute,
	)
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)

	input := validRegistration()
	input.Username = "  alice  "

	user, err := authService.Register(input)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "s3cret-pass"))
}

func TestAuthService_Register_FormErrors(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	_, err := authService.Register(validRegistration())
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(in *RegisterInput)
		field  string
		msg    string
	}{
		{"missing username", func(in *RegisterInput) { in.Username = "" }, "username", MsgFieldRequired},
		{"invalid username", func(in *RegisterInput) { in.Username = "bob smith!" }, "username", MsgInvalidUsername},
		{"taken username", func(in *RegisterInput) { in.Email = "other@example.com" }, "username", MsgUsernameTaken},
		{"missing email", func(in *RegisterInput) { in.Username = "bob"; in.Email = "" }, "email", MsgFieldRequired},
		{"invalid email", func(in *RegisterInput) { in.Username = "bob"; in.Email = "not-an-email" }, "email", MsgInvalidEmail},
		{"taken email", func(in *RegisterInput) { in.Username = "bob"; in.Email = "ALICE@example.com" }, "email", MsgEmailTaken},
		{"missing confirmation", func(in *RegisterInput) { in.Username = "bob"; in.Password2 = "" }, "password2", MsgFieldRequired},
		{"mismatch", func(in *RegisterInput) { in.Username = "bob"; in.Password2 = "other-pass" }, "password2", MsgPasswordMismatch},
		{"too short", func(in *RegisterInput) { in.Username = "bob"; in.Password1 = "ab1"; in.Password2 = "ab1" }, "password2", MsgPasswordTooShort},
		{"numeric", func(in *RegisterInput) { in.Username = "bob"; in.Password1 = "12345678"; in.Password2 = "12345678" }, "password2", MsgPasswordNumeric},
		{"similar to username", func(in *RegisterInput) {
			in.Username = "bobthebuilder"
			in.Email = "bob@example.com"
			in.Password1 = "BobTheBuilder"
			in.Password2 = "BobTheBuilder"
		}, "password2", MsgPasswordSimilar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegistration()
			tt.modify(&input)

			user, err := authService.Register(input)
			assert.Nil(t, user)

			var formErrs FormErrors
			require.True(t, errors.As(err, &formErrs), "expected FormErrors, got %v", err)
			assert.Contains(t, formErrs[tt.field], tt.msg)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	registered, err := authService.Register(validRegistration())
	require.NoError(t, err)

	user, session, err := authService.Login("alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	require.NotNil(t, session)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	claims, err := util.ValidateToken(session.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.True(t, claims.IsSessionToken())
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	_, err := authService.Register(validRegistration())
	require.NoError(t, err)

	_, _, err = authService.Login("alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	revoker := newFakeRevoker()
	authService := setupAuthServiceTest(t, revoker)
	_, err := authService.Register(validRegistration())
	require.NoError(t, err)

	_, session, err := authService.Login("alice", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), session.Token))

	ttl, ok := revoker.revoked[session.Token]
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestAuthService_Logout_IgnoresUnusableTokens(t *testing.T) {
	revoker := newFakeRevoker()
	authService := setupAuthServiceTest(t, revoker)

	assert.NoError(t, authService.Logout(context.Background(), ""))
	assert.NoError(t, authService.Logout(context.Background(), "not-a-token"))
	assert.Empty(t, revoker.revoked)

	withoutRevoker := setupAuthServiceTest(t, nil)
	assert.NoError(t, withoutRevoker.Logout(context.Background(), "not-a-token"))
}

func TestAuthService_Logout_RevokerFailure(t *testing.T) {
	revoker := newFakeRevoker()
	revoker.err = errors.New("redis down")
	authService := setupAuthServiceTest(t, revoker)
	_, err := authService.Register(validRegistration())
	require.NoError(t, err)

	_, session, err := authService.Login("alice", "s3cret-pass")
	require.NoError(t, err)

	assert.Error(t, authService.Logout(context.Background(), session.Token))
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	registered, err := authService.Register(validRegistration())
	require.NoError(t, err)

	user, err := authService.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
