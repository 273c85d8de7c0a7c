package auth

import (
	"context"
	"sync"
	"time"

	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"golang.org/x/sync/singleflight"
)

// Provider supplies the current bearer token, reading the keyring at most once until it is reset.
type Provider struct {
	override string
	now      func() time.Time

	group  singleflight.Group
	mu     sync.Mutex
	loaded bool
	token  string
}

// NewProvider returns a Provider. A non-empty auth.token setting takes precedence over the keyring.
func NewProvider() *Provider {
	return &Provider{
		override: viper.GetString(key.AuthToken),
		now:      time.Now,
	}
}

// Token returns the bearer token or "" when the user is signed out or the token has expired.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if p.override != "" {
		return p.override, nil
	}

	p.mu.Lock()
	if p.loaded {
		token := p.token
		p.mu.Unlock()
		return p.fresh(token), nil
	}
	p.mu.Unlock()

	ch := p.group.DoChan("token", func() (any, error) {
		token, err := GetToken()
		if err != nil {
			return "", err
		}
		p.mu.Lock()
		p.token, p.loaded = token, true
		p.mu.Unlock()
		return token, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return p.fresh(res.Val.(string)), nil
	}
}

// Save stores a new token.
func (p *Provider) Save(token string) error {
	if err := SetToken(token); err != nil {
		return err
	}
	p.mu.Lock()
	p.token, p.loaded = token, true
	p.mu.Unlock()
	return nil
}

// SignOut forgets the token locally and in the keyring.
func (p *Provider) SignOut() error {
	p.mu.Lock()
	p.token, p.loaded = "", true
	p.mu.Unlock()
	return DeleteToken()
}

func (p *Provider) fresh(token string) string {
	if token != "" && Expired(token, p.now()) {
		log.Warn("stored token has expired")
		return ""
	}
	return token
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Opaque tokens and tokens without exp never expire locally; the server decides.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
