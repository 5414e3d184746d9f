// Package auth identifies the caller of a request. Identification never
// rejects a request: an unknown or invalid credential yields Anonymous.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// User is the identity attached to a request.
type User struct {
	ID        string
	Anonymous bool
}

// Anonymous is the identity of requests without a valid credential.
var Anonymous = User{Anonymous: true}

// Authenticator turns the request's Authorization header value into a User.
type Authenticator interface {
	Identify(ctx context.Context, authorization string) (User, error)
}

// Noop is the default authenticator: every request is anonymous.
type Noop struct{}

func (Noop) Identify(context.Context, string) (User, error) {
	return Anonymous, nil
}

// JWT identifies users from HS256-signed "Bearer <token>" credentials using the sub claim.
type JWT struct {
	secret []byte
}

// NewJWT creates a JWT authenticator for the given shared secret.
func NewJWT(secret string) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWT{secret: []byte(secret)}, nil
}

// Identify returns Anonymous with a nil error when no bearer token is present,
// and Anonymous with the parse error when the token is invalid.
func (a *JWT) Identify(_ context.Context, authorization string) (User, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return Anonymous, nil
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if tokenStr == "" {
		return Anonymous, nil
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Anonymous, err
	}
	if !token.Valid || claims.Subject == "" {
		return Anonymous, errors.New("invalid token claims")
	}
	return User{ID: claims.Subject}, nil
}

// Issue signs an access token for subject. Used by operators and tests to mint credentials.
func (a *JWT) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    "funstar-catalog",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
