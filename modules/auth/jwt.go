package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/example/event-planner/config"
	domain "github.com/example/event-planner/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClass distinguishes access tokens from refresh tokens.
type TokenClass string

const (
	// AccessToken authorizes API calls.
	AccessToken TokenClass = "access"
	// RefreshToken is only accepted to mint a new access token.
	RefreshToken TokenClass = "refresh"
)

// TokenClaims represents the custom claims for JWT tokens.
type TokenClaims struct {
	UserID    uint       `json:"user_id"`
	Roles     []string   `json:"roles"`
	TokenType TokenClass `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies identity tokens.
type TokenCodec struct {
	config config.JWTConfig
	method jwt.SigningMethod
}

// NewTokenCodec creates a TokenCodec with the given configuration.
// Only HMAC signing methods are accepted since the key is a shared secret.
func NewTokenCodec(cfg config.JWTConfig) (*TokenCodec, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key must not be empty")
	}
	alg := cfg.SigningMethod
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt signing method %q", alg)
	}
	return &TokenCodec{config: cfg, method: method}, nil
}

// Lifespan returns how long a token of the given class stays valid.
func (c *TokenCodec) Lifespan(class TokenClass) time.Duration {
	if class == RefreshToken {
		return c.config.RefreshTokenDuration
	}
	return c.config.AccessTokenDuration
}

// AccessTokenDuration returns the access token duration in seconds.
func (c *TokenCodec) AccessTokenDuration() int64 {
	return int64(c.config.AccessTokenDuration.Seconds())
}

// Encode mints a signed token for subjectID issued at now.
// Claims carry whole seconds, so exp is rounded up and never lands before
// now plus the lifespan.
func (c *TokenCodec) Encode(subjectID uint, roles domain.Roles, class TokenClass, now time.Time) (string, error) {
	expiresAt := now.Add(c.Lifespan(class))
	if rounded := expiresAt.Truncate(time.Second); !rounded.Equal(expiresAt) {
		expiresAt = rounded.Add(time.Second)
	}

	claims := TokenClaims{
		UserID:    subjectID,
		Roles:     domain.NewRoles(roles...),
		TokenType: class,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.config.Issuer,
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString([]byte(c.config.SecretKey))
}

// Decode verifies tokenString and returns its claims.
//
// A token is accepted while now <= exp. Expiry is checked before the class,
// so an expired token of the wrong class reports ErrExpiredToken.
func (c *TokenCodec) Decode(tokenString string, expected TokenClass, now time.Time) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(c.config.SecretKey), nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing timestamps", ErrMalformedToken)
	}
	if claims.Issuer != c.config.Issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrMalformedToken, claims.Issuer)
	}
	subject, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || subject == 0 || uint(subject) != claims.UserID {
		return nil, fmt.Errorf("%w: invalid subject %q", ErrMalformedToken, claims.Subject)
	}

	if now.After(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}
	if claims.TokenType != expected {
		return nil, ErrWrongTokenClass
	}

	return claims, nil
}
