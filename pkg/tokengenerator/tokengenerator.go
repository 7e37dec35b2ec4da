package tokengenerator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultAccessTokenExpiry = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// TokenGenerator issues and parses bearer tokens
type TokenGenerator interface {
	// GenerateToken issues a token for subject carrying extraClaims
	GenerateToken(subject string, extraClaims map[string]interface{}) (Token, error)

	// ParseToken validates tokenStr and returns its claims
	ParseToken(tokenStr string) (*Claims, error)
}

// Token is a signed token together with the registered claims a caller needs
// to revoke it later.
type Token struct {
	Value     string
	ID        string
	Subject   string
	ExpiresAt time.Time
}

// Claims struct for JWT claims
type Claims struct {
	ExtraClaims map[string]interface{} `json:"extra_claims,omitempty"`
	jwt.RegisteredClaims
}

// JwtTokenGenerator signs HS256 tokens with a shared secret
type JwtTokenGenerator struct {
	Secret   string
	Issuer   string
	Audience string
	Expiry   time.Duration

	now func() time.Time
}

// Option configures a JwtTokenGenerator
type Option func(*JwtTokenGenerator)

// WithClock overrides the time source used for iat, nbf and exp
func WithClock(now func() time.Time) Option {
	return func(g *JwtTokenGenerator) {
		g.now = now
	}
}

// NewJwtTokenGenerator creates a new JwtTokenGenerator. A zero expiry selects DefaultAccessTokenExpiry.
func NewJwtTokenGenerator(secret, issuer, audience string, expiry time.Duration, opts ...Option) *JwtTokenGenerator {
	if expiry <= 0 {
		expiry = DefaultAccessTokenExpiry
	}
	g := &JwtTokenGenerator{
		Secret:   secret,
		Issuer:   issuer,
		Audience: audience,
		Expiry:   expiry,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateToken creates a new token with the given subject and claims.
// Every token gets a fresh jti so it can be revoked on its own.
func (g *JwtTokenGenerator) GenerateToken(subject string, extraClaims map[string]interface{}) (Token, error) {
	now := g.now().UTC().Truncate(time.Second)
	claims := Claims{
		ExtraClaims: extraClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-5 * time.Minute)),
			Issuer:    g.Issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{g.Audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(g.Secret))
	if err != nil {
		slog.Error("Failed sign JWT Claim string!", "err", err)
		return Token{}, err
	}
	return Token{
		Value:     ss,
		ID:        claims.ID,
		Subject:   subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseToken parses a token string and checks its signature, algorithm, issuer,
// audience and expiry.
func (g *JwtTokenGenerator) ParseToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	}
	if g.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.Issuer))
	}
	if g.Audience != "" {
		opts = append(opts, jwt.WithAudience(g.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(g.Secret), nil
	}, opts...)
	if err != nil {
		slog.Debug("Failed parse JWT string", "err", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
