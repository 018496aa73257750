package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gymflow/console/internal/gymapi"
)

// FallbackLoginError is shown when the API gives no usable detail.
const FallbackLoginError = "Login failed"

// DefaultTokenTTL bounds persisted tokens whose expiry cannot be read
// from the access token itself.
const DefaultTokenTTL = 24 * time.Hour

// AuthAPI is the slice of the API client the manager drives. The
// manager is the sole caller of SetAuthToken and ClearAuthToken.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (gymapi.TokenPair, error)
	SetAuthToken(token string)
	ClearAuthToken()
}

// LoginResult reports a login attempt to the caller. Failed attempts
// are results, not errors; Error carries the display message.
type LoginResult struct {
	Success bool
	Error   string
}

// Manager holds the console's single authenticated session. All state
// transitions go through Initialize, Login and Logout; nothing else
// touches the stored pair or the client's bearer token.
type Manager struct {
	api    AuthAPI
	store  TokenStore
	logger *slog.Logger

	mu            sync.RWMutex
	authenticated bool
}

func NewManager(api AuthAPI, store TokenStore, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{api: api, store: store, logger: logger}
}

// Initialize restores a persisted session at startup. A stored access
// token is attached as-is; the remote API is the judge of expiry. A
// storage read failure leaves the manager unauthenticated.
func (m *Manager) Initialize(ctx context.Context) error {
	pair, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if pair.Access == "" {
		return nil
	}

	m.api.SetAuthToken(pair.Access)
	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	m.logger.Info("session restored from store")
	return nil
}

// Login exchanges credentials for a token pair. On success the pair is
// persisted and the access token attached before the result returns,
// so the first request after login already carries the credential. On
// failure no session state changes.
func (m *Manager) Login(ctx context.Context, username, password string) LoginResult {
	pair, err := m.api.Login(ctx, username, password)
	if err != nil {
		return LoginResult{Success: false, Error: loginErrorMessage(err)}
	}

	if err := m.store.Save(ctx, pair, TokenTTL(pair.Access)); err != nil {
		// The session is still valid for the life of the process.
		m.logger.Warn("persist session failed", "error", err)
	}

	m.api.SetAuthToken(pair.Access)
	m.mu.Lock()
	m.authenticated = true
	m.mu.Unlock()
	m.logger.Info("login succeeded", "username", username)
	return LoginResult{Success: true}
}

// Logout tears the session down unconditionally. It never fails from
// the caller's point of view; a storage error is logged and the
// in-process state is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.api.ClearAuthToken()
	m.mu.Lock()
	m.authenticated = false
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("clear session store failed", "error", err)
	}
	m.logger.Info("logged out")
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.authenticated
}

// loginErrorMessage maps a login failure to its display string: the
// API's detail when present, otherwise a generic fallback. Transport
// errors never leak into the UI.
func loginErrorMessage(err error) string {
	var apiErr *gymapi.APIError
	if errors.As(err, &apiErr) {
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
	}
	return FallbackLoginError
}

// TokenTTL derives a storage TTL from the access token's exp claim so
// the persisted pair does not outlive the credential. The signature is
// not checked; only the remote API verifies tokens. Tokens without a
// readable expiry get DefaultTokenTTL.
func TokenTTL(accessToken string) time.Duration {
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return DefaultTokenTTL
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return DefaultTokenTTL
	}
	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return DefaultTokenTTL
	}
	return ttl
}
