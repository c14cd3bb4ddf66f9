package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNotAuthenticated is returned when no cached token exists and no
// interactive flow is configured.
var ErrNotAuthenticated = errors.New("not authenticated; run 'ytgenre auth login'")

// refreshLeeway is how close to expiry a token may get before it is
// refreshed instead of used as-is.
const refreshLeeway = 2 * time.Minute

// Manager owns the credential: it loads the cached token, refreshes it when
// it is about to expire, and falls back to the interactive flow when no
// usable token exists.
type Manager struct {
	Store TokenStore
	Flow  Flow
	Log   *zap.SugaredLogger
}

// Obtain returns a valid credential, rewriting the store whenever the token
// changed.
func (m *Manager) Obtain(ctx context.Context, cfg *oauth2.Config) (StoredToken, error) {
	stored, ok, err := m.Store.Load()
	if err != nil {
		return StoredToken{}, err
	}
	if ok {
		if stored.Valid() {
			return stored, nil
		}
		if stored.RefreshToken != "" {
			refreshed, err := m.refresh(ctx, cfg, stored)
			if err == nil {
				return refreshed, nil
			}
			m.log().Warnw("token refresh failed; falling back to interactive login", "error", err)
		}
	}
	if m.Flow == nil {
		return StoredToken{}, ErrNotAuthenticated
	}
	return m.Login(ctx, cfg)
}

// Login runs the interactive flow unconditionally and persists the result.
func (m *Manager) Login(ctx context.Context, cfg *oauth2.Config) (StoredToken, error) {
	if m.Flow == nil {
		return StoredToken{}, errors.New("no authorization flow configured")
	}
	token, err := m.Flow.Authorize(ctx, cfg)
	if err != nil {
		return StoredToken{}, fmt.Errorf("authorization failed: %w", err)
	}
	stored := NewStoredToken(token, cfg.Scopes)
	if err := m.Store.Save(stored); err != nil {
		return stored, fmt.Errorf("failed to persist token: %w", err)
	}
	m.log().Debugw("stored new token", "expiry", stored.Expiry)
	return stored, nil
}

func (m *Manager) refresh(ctx context.Context, cfg *oauth2.Config, stored StoredToken) (StoredToken, error) {
	src := cfg.TokenSource(ctx, stored.OAuth2())
	refreshed, err := src.Token()
	if err != nil {
		return stored, fmt.Errorf("failed to refresh token: %w", err)
	}
	next := NewStoredToken(refreshed, stored.Scopes)
	// Google omits the refresh token and ID token on refresh responses.
	if next.RefreshToken == "" {
		next.RefreshToken = stored.RefreshToken
	}
	if next.IDToken == "" {
		next.IDToken = stored.IDToken
	}
	if err := m.Store.Save(next); err != nil {
		return next, fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	m.log().Debugw("refreshed token", "expiry", next.Expiry)
	return next, nil
}

func (m *Manager) log() *zap.SugaredLogger {
	if m.Log != nil {
		return m.Log
	}
	return zap.NewNop().Sugar()
}
