package deploy

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/homepresso/formgraph/internal/config"
)

// TokenSource mints and caches HS256 bearer tokens for runtime calls. A
// token is reused until shortly before its expiry so a multi-form run does
// not sign one token per request.
type TokenSource struct {
	mu       sync.Mutex
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration

	cached    string
	expiresAt time.Time
}

// refreshMargin is how long before expiry a cached token is discarded.
const refreshMargin = 30 * time.Second

// NewTokenSource builds a TokenSource from the runtime auth config. The
// signing secret is read from the environment variable named in the
// config, never from the config file itself.
func NewTokenSource(cfg config.RuntimeAuthConfig) (*TokenSource, error) {
	secret := os.Getenv(cfg.SecretEnv)
	if secret == "" {
		return nil, fmt.Errorf("deploy: auth secret environment variable %s is not set", cfg.SecretEnv)
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenSource{
		secret:   []byte(secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}, nil
}

// Token returns a signed bearer token, minting a fresh one when the cached
// token is absent or close to expiry.
func (ts *TokenSource) Token() (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.cached != "" && time.Until(ts.expiresAt) > refreshMargin {
		return ts.cached, nil
	}

	now := time.Now()
	expiry := now.Add(ts.ttl)
	claims := jwt.MapClaims{
		"iss": ts.issuer,
		"aud": ts.audience,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiry),
		"sub": "formgraph-deployer",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("deploy: sign token: %w", err)
	}

	ts.cached = signed
	ts.expiresAt = expiry
	return signed, nil
}
