package auth

import (
	"testing"
	"time"

	"campus-marketplace/internal/domain/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret", []string{"Admin@Campus.edu"})
	user := uuid.New()

	token, err := v.Sign(user, "student@campus.edu", time.Hour)
	require.NoError(t, err)

	sess, err := v.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user, sess.UserID)
	assert.Equal(t, "student@campus.edu", sess.Email)
	assert.False(t, sess.IsAdmin())

	adminToken, err := v.Sign(uuid.New(), "admin@campus.edu", time.Hour)
	require.NoError(t, err)
	admin, err := v.Parse(adminToken)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret", nil)
	other := NewVerifier("other-secret", nil)
	user := uuid.New()

	wrongKey, err := other.Sign(user, "a@b.c", time.Hour)
	require.NoError(t, err)

	expired, err := v.Sign(user, "a@b.c", -time.Minute)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.String()},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":     "not.a.token",
		"wrong key":   wrongKey,
		"expired":     expired,
		"bad subject": noSubject,
		"no expiry":   noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Parse(token)
			assert.ErrorIs(t, err, shared.ErrInvalidToken)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}
