package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/todolist/internal/core/domain"
)

// sessionTokens signs and verifies the cookie half of a session: an HS256 JWT
// whose jti is the server-side session id and whose sub is the username.
type sessionTokens struct {
	secret []byte
	now    func() time.Time
}

func newSessionTokens(secret string, now func() time.Time) *sessionTokens {
	return &sessionTokens{secret: []byte(secret), now: now}
}

func (t *sessionTokens) issue(username string, ttl time.Duration) (*domain.Session, error) {
	now := t.now()
	id := uuid.NewString()
	expires := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		ID:        id,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		ID:        id,
		Token:     signed,
		Username:  username,
		ExpiresAt: expires,
	}, nil
}

func (t *sessionTokens) parse(token string) (*jwt.RegisteredClaims, error) {
	return t.parseWith(token,
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
}

// parseUnverifiedExpiry checks the signature but accepts expired tokens.
func (t *sessionTokens) parseUnverifiedExpiry(token string) (*jwt.RegisteredClaims, error) {
	return t.parseWith(token, jwt.WithoutClaimsValidation())
}

func (t *sessionTokens) parseWith(token string, opts ...jwt.ParserOption) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
