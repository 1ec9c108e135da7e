package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
)

// ErrInvalidToken is wrapped by every validation failure.
var ErrInvalidToken = errors.New("invalid session token")

// Generator signs and validates stateless session tokens with a shared secret.
type Generator struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewGenerator constructs a session token generator.
func NewGenerator(secret []byte, ttl time.Duration, issuer string) *Generator {
	return &Generator{secret: secret, ttl: ttl, issuer: issuer, now: time.Now}
}

// WithClock returns a copy of the generator reading time from now.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	clone := *g
	clone.now = now
	return &clone
}

// SessionClaims represent the custom JWT payload.
type SessionClaims struct {
	ID string `json:"id"`
}

// SessionToken is a signed token and its expiry.
type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}

// Issue signs a token bound to userID.
func (g *Generator) Issue(userID int64) (SessionToken, error) {
	signer, err := gojose.NewSigner(gojose.SigningKey{Algorithm: gojose.HS256, Key: g.secret}, (&gojose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return SessionToken{}, fmt.Errorf("new signer: %w", err)
	}

	now := g.now().UTC()
	expiry := now.Add(g.ttl)
	subject := strconv.FormatInt(userID, 10)
	stdClaims := gojwt.Claims{
		Subject:   subject,
		Issuer:    g.issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		Expiry:    gojwt.NewNumericDate(expiry),
	}

	token, err := gojwt.Signed(signer).Claims(stdClaims).Claims(SessionClaims{ID: subject}).Serialize()
	if err != nil {
		return SessionToken{}, fmt.Errorf("serialize jwt: %w", err)
	}

	return SessionToken{Value: token, ExpiresAt: expiry}, nil
}

// Validate verifies the signature and time claims and returns the bound user id.
func (g *Generator) Validate(token string) (int64, error) {
	parsed, err := gojwt.ParseSigned(token, []gojose.SignatureAlgorithm{gojose.HS256})
	if err != nil {
		return 0, fmt.Errorf("%w: parse: %v", ErrInvalidToken, err)
	}

	var std gojwt.Claims
	var custom SessionClaims
	if err := parsed.Claims(g.secret, &std, &custom); err != nil {
		return 0, fmt.Errorf("%w: verify: %v", ErrInvalidToken, err)
	}

	if err := std.Validate(gojwt.Expected{Issuer: g.issuer, Time: g.now()}); err != nil {
		return 0, fmt.Errorf("%w: claims: %v", ErrInvalidToken, err)
	}

	raw := custom.ID
	if raw == "" {
		raw = std.Subject
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}
	return userID, nil
}
