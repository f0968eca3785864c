package auth

import (
	"fmt"
	"strings"
	"time"

	"campus-marketplace/internal/domain/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the identity provider's access token claims; the subject is the user id
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier turns HS256 access tokens into sessions
type Verifier struct {
	secret []byte
	admins map[string]struct{}
}

// NewVerifier creates a verifier. adminEmails are compared case-insensitively.
func NewVerifier(secret string, adminEmails []string) *Verifier {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Verifier{secret: []byte(secret), admins: admins}
}

// Sign issues a token for a user; used by the seed command for development logins
func (v *Verifier) Sign(userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(v.secret)
}

// Parse verifies a token and returns the caller's session
func (v *Verifier) Parse(token string) (*shared.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", shared.ErrInvalidToken)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	_, admin := v.admins[email]

	return &shared.Session{
		UserID: userID,
		Email:  email,
		Admin:  admin && email != "",
	}, nil
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
