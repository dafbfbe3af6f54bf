package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidPassword is returned when the submitted access code does not match.
var ErrInvalidPassword = errors.New("invalid access code")

// ErrInvalidSession is returned for missing, tampered or foreign session tokens.
var ErrInvalidSession = errors.New("invalid session")

const issuer = "cacao-dashboard"

// SessionClaims marks a browser session as having passed the access gate.
type SessionClaims struct {
	Authenticated bool `json:"auth"`
	jwt.RegisteredClaims
}

// Gate compares access codes against the shared password and issues signed
// session tokens. Sessions do not expire; they end when the browser drops the
// cookie or the user logs out. Logged out session IDs are remembered until
// the process restarts.
type Gate struct {
	password []byte
	secret   []byte
	now      func() time.Time

	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewGate builds a gate. An empty secret is replaced by a random one, which
// invalidates every session when the process restarts.
func NewGate(password, secret string) (*Gate, error) {
	if password == "" {
		return nil, errors.New("password must not be empty")
	}

	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}

	return &Gate{
		password: []byte(password),
		secret:   key,
		now:      time.Now,
		revoked:  make(map[string]struct{}),
	}, nil
}

// Login checks the access code verbatim and returns a signed session token.
func (g *Gate) Login(code string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(code), g.password) != 1 {
		return "", ErrInvalidPassword
	}

	claims := SessionClaims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(g.now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Verify parses a session token and returns its claims.
func (g *Gate) Verify(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(g.now))
	if err != nil || !parsed.Valid || !claims.Authenticated {
		return nil, ErrInvalidSession
	}

	g.mu.RLock()
	_, revoked := g.revoked[claims.ID]
	g.mu.RUnlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// Revoke ends a session so its token no longer verifies, even when a copy
// outlives the browser cookie.
func (g *Gate) Revoke(token string) error {
	claims, err := g.Verify(token)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.revoked[claims.ID] = struct{}{}
	return nil
}
