// Package session owns who is signed in to the dashboard: the bearer token,
// the profile it belongs to and the durable copy of that token.
//
// A Store goes through create → Initialize → ready. Consumers that read
// User or IsAdmin before Initialize completes see Loading() == true and
// must treat the answer as provisional.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/baselog-dev/baselog/internal/cli/auth"
	"github.com/baselog-dev/baselog/internal/cli/client"
)

// EntryRoute is where a signed-out user lands.
const EntryRoute = "/"

// logoutTimeout bounds the best-effort sign-out notification.
const logoutTimeout = 10 * time.Second

// Authenticator is the slice of the backend the store talks to.
type Authenticator interface {
	Login(ctx context.Context, creds client.Credentials) (*client.LoginResponse, error)
	Me(ctx context.Context, token string) (*client.Profile, error)
	Logout(ctx context.Context, token string) error
}

// Navigator moves the user to another route.
type Navigator interface {
	Replace(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Replace(route string) { f(route) }

// State is a point-in-time copy of the session.
type State struct {
	Token   string
	User    *client.Profile
	Loading bool
}

// Store is the single source of truth for the signed-in user.
type Store struct {
	api    Authenticator
	tokens auth.TokenStore
	nav    Navigator
	logger zerolog.Logger

	mu      sync.RWMutex
	token   string
	user    *client.Profile
	loading bool

	initOnce sync.Once
	ready    chan struct{}
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets where SignOut sends the user.
func WithNavigator(nav Navigator) Option {
	return func(s *Store) { s.nav = nav }
}

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates an empty, loading store.
func New(api Authenticator, tokens auth.TokenStore, opts ...Option) *Store {
	s := &Store{
		api:     api,
		tokens:  tokens,
		nav:     NavigatorFunc(func(string) {}),
		logger:  zerolog.Nop(),
		loading: true,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize restores the session from durable storage. It runs once per
// Store; later calls return immediately. An unusable token leaves the
// session empty and is not reported as an error.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer func() {
			s.setLoading(false)
			close(s.ready)
		}()

		token, err := s.tokens.LoadToken()
		if err != nil {
			if !errors.Is(err, auth.ErrNoToken) {
				s.logger.Warn().Err(err).Msg("Failed to read persisted token")
			}
			return
		}

		if err := s.loadProfile(ctx, token); err != nil {
			s.logger.Info().Err(err).Msg("Persisted token rejected, starting signed out")
		}
	})
}

// Ready is closed once Initialize has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// SignIn exchanges credentials for a token, persists it and loads the
// profile. Backend errors are returned unchanged.
func (s *Store) SignIn(ctx context.Context, creds client.Credentials) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login response carried no access token")
	}

	if err := s.tokens.SaveToken(resp.AccessToken); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	if err := s.loadProfile(ctx, resp.AccessToken); err != nil {
		if derr := s.tokens.DeleteToken(); derr != nil {
			s.logger.Warn().Err(derr).Msg("Failed to roll back persisted token")
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	s.logger.Debug().Str("user_id", s.userID()).Msg("Signed in")
	return nil
}

// SignOut notifies the backend when a token is known, then always clears
// durable storage and memory and navigates to EntryRoute. Safe to call
// repeatedly and concurrently.
func (s *Store) SignOut(ctx context.Context) {
	token := s.Token()
	if token == "" {
		token, _ = s.tokens.LoadToken()
	}

	if token != "" {
		nctx, cancel := context.WithTimeout(ctx, logoutTimeout)
		if err := s.api.Logout(nctx, token); err != nil {
			s.logger.Debug().Err(err).Msg("Sign-out notification failed, clearing session anyway")
		}
		cancel()
	}

	if err := s.tokens.DeleteToken(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to delete persisted token")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.nav.Replace(EntryRoute)
}

func (s *Store) loadProfile(ctx context.Context, token string) error {
	profile, err := s.api.Me(ctx, token)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.user = nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = profile
	s.mu.Unlock()
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) userID() string {
	if u := s.User(); u != nil {
		return u.ID
	}
	return ""
}

// Token returns the in-memory token, "" when signed out or not loaded yet.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current profile, nil when signed out.
func (s *Store) User() *client.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether an initialization or sign-in is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin reports whether the loaded user has the ADMIN role.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == client.RoleAdmin
}

// Snapshot returns a consistent copy of the whole session.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Token: s.token, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}
