package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateSessionToken(t *testing.T) {
	session, err := GenerateSessionToken(1, "shopper", "user", testSecret, 15*time.Minute)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.NotEmpty(t, session.Token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), session.ExpiresAt, 2*time.Second)

	other, err := GenerateSessionToken(1, "shopper", "user", testSecret, 15*time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, session.Token, other.Token)
}

func TestValidateToken(t *testing.T) {
	session, err := GenerateSessionToken(123, "shopper", "user", testSecret, 15*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{name: "Valid session token", token: session.Token, secret: testSecret},
		{name: "Wrong secret", token: session.Token, secret: "wrong-secret", wantErr: ErrInvalidToken},
		{name: "Garbage token", token: "invalid.token.format", secret: testSecret, wantErr: ErrInvalidToken},
		{name: "Empty token", token: "", secret: testSecret, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(123), claims.UserID)
			assert.Equal(t, "shopper", claims.Username)
			assert.Equal(t, "user", claims.Role)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	session, err := GenerateSessionToken(1, "shopper", "user", testSecret, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(session.Token, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestTokenTTL(t *testing.T) {
	session, err := GenerateSessionToken(1, "shopper", "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(session.Token, testSecret)
	require.NoError(t, err)

	ttl := TokenTTL(claims)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)
	assert.Equal(t, time.Duration(0), TokenTTL(nil))
}

func TestClaims_IsSessionToken(t *testing.T) {
	session, err := GenerateSessionToken(7, "shopper", "user", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(session.Token, testSecret)
	require.NoError(t, err)
	assert.True(t, claims.IsSessionToken())
	assert.NotEmpty(t, claims.ID)

	now := time.Now()
	foreign, err := signToken(7, "shopper", "user", testSecret, "api", now, now.Add(time.Hour))
	require.NoError(t, err)

	claims, err = ValidateToken(foreign, testSecret)
	require.NoError(t, err)
	assert.False(t, claims.IsSessionToken())
}
