package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token parse failures, distinguished for logging. The gate surfaces all
// of them uniformly as ErrInvalidToken.
var (
	ErrTokenMalformed = errors.New("auth: token malformed")
	ErrTokenSignature = errors.New("auth: token signature invalid")
	ErrTokenExpired   = errors.New("auth: token expired")
)

// DefaultTokenTTL is the validity window for issued tokens. There is no
// refresh mechanism; clients re-authenticate after expiry.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenIssuer mints and parses HS256 bearer tokens. The signing key is
// injected at construction; there is no package-level secret.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. A non-positive ttl falls back
// to DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a signed token bound to the given subject id. The jti
// claim makes every issuance a distinct string even within the same
// second, since iat and exp only carry second precision.
func (t *TokenIssuer) Issue(subjectID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Parse verifies signature and expiry and returns the subject id. It does
// not consult the account store; callers needing a live identity use
// Service.VerifyToken.
func (t *TokenIssuer) Parse(raw string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		default:
			return "", ErrTokenMalformed
		}
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// TTL exposes the configured validity window.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}
