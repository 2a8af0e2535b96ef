package userforms

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

type OAuthUserInfo struct {
	ID    string
	Email string
	Name  string
	// EmailVerified is set only when the provider vouches for Email.
	EmailVerified bool
}

type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuthUserInfo, error)
}

// oauthStateTTL is how long a login redirect stays valid, in seconds.
const oauthStateTTL = 600

// OAuth signs users in through external providers.
type OAuth struct {
	store     *Store
	mu        sync.RWMutex
	providers map[string]OAuthProvider
}

func NewOAuth(store *Store, providers ...OAuthProvider) *OAuth {
	o := &OAuth{store: store, providers: make(map[string]OAuthProvider)}
	for _, p := range providers {
		o.Register(p)
	}
	return o
}

func (o *OAuth) Register(p OAuthProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.providers[p.Name()] = p
}

func (o *OAuth) provider(name string) OAuthProvider {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.providers[name]
}

// Providers lists registered provider names in order.
func (o *OAuth) Providers() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := make([]string, 0, len(o.providers))
	for name := range o.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Begin records a single-use state and returns the provider's consent URL.
func (o *OAuth) Begin(providerName string) (string, error) {
	p := o.provider(providerName)
	if p == nil {
		return "", ErrProviderNotFound
	}

	state := o.store.newID()
	now := o.store.now().Unix()
	if err := o.store.exec.Exec(
		"INSERT INTO user_oauth_states (state, provider, expires_at, created_at) VALUES (?, ?, ?, ?)",
		state, providerName, now+oauthStateTTL, now,
	); err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// Complete finishes a provider login. The bool reports whether a new
// account was created.
func (o *OAuth) Complete(ctx context.Context, providerName, state, code string) (Account, bool, error) {
	if err := o.consumeState(state, providerName); err != nil {
		return Account{}, false, ErrInvalidOAuthState
	}

	p := o.provider(providerName)
	if p == nil {
		return Account{}, false, ErrProviderNotFound
	}

	token, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return Account{}, false, err
	}
	info, err := p.GetUserInfo(ctx, token)
	if err != nil {
		return Account{}, false, err
	}

	identity, err := o.store.GetIdentityByProvider(providerName, info.ID)
	if err == nil {
		a, err := o.store.GetUser(identity.UserID)
		return a, false, err
	}

	// An existing account is only claimed through an address the provider
	// has verified.
	if info.EmailVerified && info.Email != "" {
		a, err := o.store.GetUserByEmail(info.Email)
		if err == nil {
			_ = o.store.CreateIdentity(a.ID, providerName, info.ID, info.Email)
			return a, false, nil
		}
	}

	first, last := splitName(info.Name)
	a, err := o.store.CreateUser(info.Email, first, last)
	if err != nil {
		return Account{}, false, err
	}
	if info.EmailVerified && info.Email != "" {
		if err := o.store.MarkEmailVerified(a.ID); err == nil {
			a.EmailVerified = true
		}
	}
	_ = o.store.CreateIdentity(a.ID, providerName, info.ID, info.Email)
	return a, true, nil
}

func (o *OAuth) consumeState(state, provider string) error {
	var expiresAt int64
	var dbProvider string
	err := o.store.exec.QueryRow("SELECT expires_at, provider FROM user_oauth_states WHERE state = ?", state).Scan(&expiresAt, &dbProvider)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidOAuthState
		}
		return err
	}

	if dbProvider != provider {
		return ErrInvalidOAuthState
	}

	// Single use: delete before checking expiry.
	if err := o.store.exec.Exec("DELETE FROM user_oauth_states WHERE state = ?", state); err != nil {
		return err
	}

	if expiresAt < o.store.now().Unix() {
		return ErrInvalidOAuthState
	}
	return nil
}

func (o *OAuth) PurgeExpiredStates() error {
	return o.store.exec.Exec("DELETE FROM user_oauth_states WHERE expires_at < ?", o.store.now().Unix())
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
