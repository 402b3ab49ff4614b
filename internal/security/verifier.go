// Package security decides whether a caller may use an OMAG server. Callers present an
// HS256 bearer token whose subject is their user id.
package security

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MihaiIliescu/egeria/internal/config"
	"github.com/MihaiIliescu/egeria/pkg/errors"
)

// TokenClaims are the claims of an OMAG bearer token. Servers, when present, limits the
// token to the named OMAG servers.
type TokenClaims struct {
	Servers []string `json:"servers,omitempty"`
	jwt.RegisteredClaims
}

type tokenKey struct{}

// WithToken returns a context carrying the raw bearer token of the caller.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token placed by WithToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Verifier validates callers. A disabled verifier accepts everyone.
type Verifier struct {
	enabled bool
	secret  []byte
	issuer  string
	now     func() time.Time
}

// NewVerifier creates a verifier from the security configuration.
func NewVerifier(cfg config.SecurityConfig) *Verifier {
	return &Verifier{enabled: cfg.Enabled, secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, now: time.Now}
}

// Enabled reports whether tokens are checked.
func (v *Verifier) Enabled() bool {
	return v != nil && v.enabled
}

// ValidateUserForServer checks the caller's token allows userID to call serverName.
func (v *Verifier) ValidateUserForServer(ctx context.Context, serverName, userID, methodName string) error {
	if !v.Enabled() {
		return nil
	}
	notAuthorized := func() error {
		return errors.UserNotAuthorized(errors.UserNotAuthorizedCode, methodName, userID, userID, methodName, serverName).
			From("security.Verifier")
	}

	raw := TokenFromContext(ctx)
	if raw == "" {
		return notAuthorized()
	}
	claims := &TokenClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return notAuthorized()
	}
	if claims.Subject != userID {
		return notAuthorized()
	}
	if len(claims.Servers) > 0 && !slices.Contains(claims.Servers, serverName) {
		return notAuthorized()
	}
	return nil
}

// IssueToken signs a token for userID, optionally limited to servers.
func (v *Verifier) IssueToken(userID string, servers []string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := &TokenClaims{
		Servers: servers,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
