package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenCookieNames are the cookies the identity provider may set the session
// token in. The __Secure- variant is used over HTTPS.
var TokenCookieNames = []string{"__Secure-session-token", "session-token"}

// Claims is the session token payload. Only Role drives authorization.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 session tokens issued by the identity provider.
type TokenVerifier struct {
	secret []byte
	issuer string
	logger *zap.Logger
}

// NewTokenVerifier returns a verifier for tokens signed with secret.
// If issuer is non-empty the iss claim must match it.
func NewTokenVerifier(secret, issuer string, logger *zap.Logger) (*TokenVerifier, error) {
	if len(secret) < 32 {
		return nil, errors.New("auth: token secret must be at least 32 bytes")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, logger: logger}, nil
}

// Verify parses and validates a token, returning the resolved user.
func (v *TokenVerifier) Verify(tokenString string) (*SessionUser, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid session token: %w", err)
	}

	role := normalize.Role(claims.Role)
	if !KnownRole(role) {
		return nil, fmt.Errorf("auth: unknown role %q", claims.Role)
	}
	if claims.Subject == "" {
		return nil, errors.New("auth: session token has no subject")
	}
	return &SessionUser{ID: claims.Subject, Name: claims.Name, Role: role}, nil
}

// FromRequest resolves the caller from a Bearer header or a token cookie.
// Invalid tokens are logged and treated as anonymous.
func (v *TokenVerifier) FromRequest(r *http.Request) (*SessionUser, bool) {
	raw := BearerToken(r)
	if raw == "" {
		for _, name := range TokenCookieNames {
			if c, err := r.Cookie(name); err == nil && c.Value != "" {
				raw = c.Value
				break
			}
		}
	}
	if raw == "" {
		return nil, false
	}

	u, err := v.Verify(raw)
	if err != nil {
		v.logger.Warn("rejected session token",
			zap.Error(err),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr))
		return nil, false
	}
	return u, true
}

// Sign issues a token for tests and local tooling. Production tokens come
// from the identity provider.
func (v *TokenVerifier) Sign(subject, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// BearerToken returns the credential of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
