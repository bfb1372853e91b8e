// Package session holds the single source of truth for "who is logged
// in". It replaces an ad-hoc global with an injected service that has an
// explicit lifecycle: hydrate from durable storage on start, clear and
// notify subscribers on logout.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// TokenStore is the durable storage the service hydrates from
type TokenStore interface {
	Load() (*model.Tokens, bool, error)
	Clear() error
}

// Service tracks the authenticated user for the lifetime of the process.
// All access goes through the mutex; handlers on different connections
// may touch it concurrently.
type Service struct {
	mu            sync.RWMutex
	user          *model.User
	authenticated bool
	subscribers   []func()

	store  TokenStore
	logger *zap.Logger
}

// New creates an empty, unauthenticated session service
func New(store TokenStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Hydrate inspects durable storage at startup. A stored access token whose
// exp claim has already passed does not authenticate; the stale pair is
// cleared so later requests go out bare. The user identity is not stored
// locally, so hydration marks the session authenticated without one and
// the dashboard resolves the identity from backend responses.
func (s *Service) Hydrate() error {
	tokens, ok, err := s.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if expired, known := accessTokenExpired(tokens.Access, time.Now()); known && expired {
		s.logger.Info("stored access token is expired, clearing session")
		return s.store.Clear()
	}

	s.mu.Lock()
	s.authenticated = true
	s.mu.Unlock()

	s.logger.Info("session hydrated from stored credentials")

	return nil
}

// Establish records a fresh login or registration
func (s *Service) Establish(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	s.logger.Info("session established", zap.String("username", user.Username))
}

// Current returns the logged-in user (may be nil right after hydration)
// and whether the session is authenticated.
func (s *Service) Current() (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// Authenticated reports whether a user is logged in
func (s *Service) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// SetUser updates the cached identity once a backend response reveals it
func (s *Service) SetUser(user *model.User) {
	if user == nil {
		return
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// Logout clears the session and notifies subscribers. The token store is
// cleared by the API client; this only tears down in-memory state.
func (s *Service) Logout() {
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify()
	}

	s.logger.Info("session cleared")
}

// Subscribe registers a callback invoked on logout
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// accessTokenExpired checks the exp claim of a JWT access token without
// verifying its signature; verification is the backend's job, this only
// avoids presenting a token that is already dead. Tokens that are not
// JWTs or carry no exp report unknown and are kept.
func accessTokenExpired(access string, now time.Time) (expired, known bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(access, claims); err != nil {
		return false, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, false
	}
	return exp.Before(now), true
}
