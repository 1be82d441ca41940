package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"sixcities/internal/domain"
)

type AuthAPI interface {
	CheckAuth(ctx context.Context) (domain.AuthInfo, error)
	Login(ctx context.Context, email, password string) (domain.AuthInfo, error)
	Logout(ctx context.Context) error
}

// TokenStorage is the durable slot holding the session token.
type TokenStorage interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error
}

type AuthState struct {
	Status  domain.AuthorizationStatus `json:"authorizationStatus"`
	User    *domain.UserProfile        `json:"user"`
	Loading bool                       `json:"loading"`
	Error   string                     `json:"error,omitempty"`
}

// AuthStore tracks whether the user is signed in. Status only moves
// UNKNOWN to AUTH or NO_AUTH through CheckAuth, to AUTH through Login and to
// NO_AUTH through Logout.
type AuthStore struct {
	api    AuthAPI
	tokens TokenStorage
	bus    *Bus
	log    *slog.Logger

	mu    sync.RWMutex
	state AuthState
}

func NewAuthStore(api AuthAPI, tokens TokenStorage, bus *Bus, log *slog.Logger) *AuthStore {
	return &AuthStore{
		api:    api,
		tokens: tokens,
		bus:    bus,
		log:    log.With("component", "auth"),
		state:  AuthState{Status: domain.AuthUnknown},
	}
}

func (s *AuthStore) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if s.state.User != nil {
		u := *s.state.User
		st.User = &u
	}
	return st
}

func (s *AuthStore) Status() domain.AuthorizationStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

func (s *AuthStore) IsAuthorized() bool {
	return s.Status() == domain.AuthAuth
}

func (s *AuthStore) CheckAuth(ctx context.Context) error {
	s.setLoading()

	info, err := s.api.CheckAuth(ctx)
	if err == nil {
		err = s.tokens.SetToken(ctx, info.Token)
	}
	if err != nil {
		if rmErr := s.tokens.RemoveToken(ctx); rmErr != nil {
			s.log.Error("remove token failed", "error", rmErr)
		}
		s.mu.Lock()
		s.state.Loading = false
		s.state.Status = domain.AuthNoAuth
		s.state.User = nil
		s.mu.Unlock()
		s.log.Info("session check failed", "error", err)
		return err
	}

	s.authorize(info)
	return nil
}

func (s *AuthStore) Login(ctx context.Context, email, password string) error {
	s.setLoading()

	info, err := s.api.Login(ctx, email, password)
	if err == nil {
		err = s.tokens.SetToken(ctx, info.Token)
	}
	if err != nil {
		s.mu.Lock()
		s.state.Loading = false
		s.state.Error = errorMessage(err, msgLogin)
		s.mu.Unlock()
		s.log.Warn("login failed", "email", email, "error", err)
		return err
	}

	profile := s.authorize(info)
	s.bus.Publish(Event{Kind: EventLoggedIn, User: &profile})
	return nil
}

// Logout ends the session locally whatever the server answers. The server's
// error, if any, is returned for logging only.
func (s *AuthStore) Logout(ctx context.Context) error {
	s.setLoading()

	apiErr := s.api.Logout(ctx)
	if apiErr != nil {
		s.log.Warn("server logout failed", "error", apiErr)
	}
	rmErr := s.tokens.RemoveToken(ctx)
	if rmErr != nil {
		s.log.Error("remove token failed", "error", rmErr)
	}

	s.mu.Lock()
	s.state = AuthState{Status: domain.AuthNoAuth}
	s.mu.Unlock()

	s.bus.Publish(Event{Kind: EventLoggedOut})
	return errors.Join(apiErr, rmErr)
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

func (s *AuthStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

func (s *AuthStore) authorize(info domain.AuthInfo) domain.UserProfile {
	profile := info.Profile()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Status = domain.AuthAuth
	u := profile
	s.state.User = &u
	return profile
}
