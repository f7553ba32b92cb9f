package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/KirkDiggler/roomserver/internal/clock"
	"github.com/KirkDiggler/roomserver/internal/entities"
	apperrors "github.com/KirkDiggler/roomserver/internal/errors"
)

const signingMethod = "HS256"

// Claims is the token body. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
}

// JWTConfig holds the shared secret tokens are signed with
type JWTConfig struct {
	Secret []byte
	Issuer string
	Clock  clock.TimeProvider
}

// JWTVerifier checks HS256 tokens
type JWTVerifier struct {
	secret []byte
	issuer string
	clock  clock.TimeProvider
}

// NewJWTVerifier creates a verifier for tokens signed with cfg.Secret
func NewJWTVerifier(cfg *JWTConfig) *JWTVerifier {
	if cfg == nil || len(cfg.Secret) == 0 {
		panic("jwt secret is required")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.System{}
	}

	return &JWTVerifier{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		clock:  c,
	}
}

// Verify implements Verifier. Every failure carries CodeUnauthenticated.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*entities.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthenticated("token is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.clock.Now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, apperrors.Unauthenticated("token subject is required")
	}

	identity := &entities.Identity{
		UserID:   claims.Subject,
		Username: claims.Username,
		Roles:    parseRoles(claims.Roles),
	}
	if identity.Username == "" {
		identity.Username = claims.Subject
	}
	return identity, nil
}

// Mint signs a token for identity valid for ttl
func Mint(cfg *JWTConfig, identity entities.Identity, ttl time.Duration) (string, error) {
	if cfg == nil || len(cfg.Secret) == 0 {
		return "", apperrors.InvalidArgument("jwt secret is required")
	}
	if identity.UserID == "" {
		return "", apperrors.InvalidArgument("user id is required")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.System{}
	}
	now := c.Now()

	roles := make([]string, 0, len(identity.Roles))
	for _, r := range identity.Roles {
		roles = append(roles, string(r))
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: identity.Username,
		Roles:    roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// parseRoles keeps known roles; an identity always has at least RoleUser
func parseRoles(raw []string) []entities.Role {
	roles := []entities.Role{entities.RoleUser}
	for _, r := range raw {
		if entities.Role(r) == entities.RoleAdmin {
			roles = append(roles, entities.RoleAdmin)
		}
	}
	return roles
}

// mapJWTError translates jwt library errors to application errors
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Unauthenticated("token is expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Unauthenticated("token signature is invalid")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.Unauthenticated("token issuer mismatch")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.Unauthenticated("token alg is invalid")
	}
	return apperrors.Unauthenticated("token is invalid")
}
