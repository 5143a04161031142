// Package session owns the current authenticated identity and drives the
// login, registration, logout, and silent-recovery flows.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jlasky/marquee/internal/domain"
	"github.com/jlasky/marquee/internal/token"
)

// State is the session lifecycle state
type State int

const (
	// StateUnknown holds from construction until startup recovery completes
	StateUnknown State = iota
	// StateAuthenticated means an Identity is present
	StateAuthenticated
	// StateAnonymous means no identity; explicit login is required
	StateAnonymous
)

// String returns the state name for logging
func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Manager is the process-wide session singleton. An Identity exists if and
// only if the state is authenticated. Every transition fans out to
// subscribers so independent UI collaborators observe one source of truth.
//
// Startup recovery racing an explicit login is possible; whichever response
// lands last wins. There is no sequencing lock.
type Manager struct {
	backend domain.CatalogueBackend
	logger  *slog.Logger

	mu       sync.RWMutex
	state    State
	identity domain.Identity

	subMu sync.Mutex
	subs  []chan struct{}
}

// NewManager creates a session manager in the unknown state
func NewManager(backend domain.CatalogueBackend, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend: backend,
		logger:  logger,
		state:   StateUnknown,
	}
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns the identity when authenticated
func (m *Manager) Current() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity, m.state == StateAuthenticated
}

// Subscribe returns a channel that receives a signal after every state
// transition. Signals are coalesced for slow readers.
func (m *Manager) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.subMu.Lock()
	m.subs = append(m.subs, ch)
	m.subMu.Unlock()
	return ch
}

func (m *Manager) notify() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Recover attempts a silent session refresh using the ambient cookie held by
// the transport. Every failure — network, non-2xx, decode — lands in the
// anonymous state without surfacing an error: this runs unconditionally on
// startup and must stay quiet.
func (m *Manager) Recover(ctx context.Context) State {
	if m.backend == nil {
		return m.transition(StateAnonymous, domain.Identity{})
	}

	bearer, err := m.backend.Refresh(ctx)
	if err != nil {
		m.logger.Debug("silent refresh failed", "error", err)
		return m.transition(StateAnonymous, domain.Identity{})
	}

	id, err := token.Decode(bearer)
	if err != nil {
		m.logger.Debug("refresh token undecodable", "error", err)
		return m.transition(StateAnonymous, domain.Identity{})
	}

	m.logger.Info("session recovered", "user", id.ID)
	return m.transition(StateAuthenticated, id)
}

// Login submits explicit credentials. On rejection the error carries the
// backend's message; an existing authenticated session is left untouched,
// and an unresolved startup state settles to anonymous.
func (m *Manager) Login(ctx context.Context, in domain.LoginInput) error {
	if m.backend == nil {
		return domain.ErrServerOffline
	}

	bearer, err := m.backend.Login(ctx, in)
	if err != nil {
		m.resolveUnknown()
		return err
	}

	id, err := token.Decode(bearer)
	if err != nil {
		m.resolveUnknown()
		return err
	}

	m.logger.Info("login succeeded", "user", id.ID)
	m.transition(StateAuthenticated, id)
	return nil
}

// Register creates an account. The password confirmation is checked before
// any network call; a successful registration does not authenticate the
// caller, who must still log in.
func (m *Manager) Register(ctx context.Context, in domain.RegisterInput) error {
	if in.Password != in.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if m.backend == nil {
		return domain.ErrServerOffline
	}
	return m.backend.Register(ctx, in)
}

// Logout requests server-side invalidation, then drops the local identity
// regardless of the backend's answer. The client never claims to be
// authenticated after this returns.
func (m *Manager) Logout(ctx context.Context) {
	id, ok := m.Current()
	if ok && m.backend != nil {
		if err := m.backend.Logout(ctx, id.ID); err != nil {
			m.logger.Warn("server-side logout failed", "error", err)
		}
	}
	m.transition(StateAnonymous, domain.Identity{})
}

// UpdateIdentity submits a partial profile update and merges the accepted
// fields into the current identity. Authenticated-only.
func (m *Manager) UpdateIdentity(ctx context.Context, in domain.ProfileUpdate) error {
	current, ok := m.Current()
	if !ok {
		return domain.ErrNotAuthenticated
	}

	updated, err := m.backend.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}

	m.transition(StateAuthenticated, mergeIdentity(current, updated))
	return nil
}

// RefreshProfile pulls the full profile from the backend and merges it into
// the identity decoded from the token. Authenticated-only.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	current, ok := m.Current()
	if !ok {
		return domain.ErrNotAuthenticated
	}

	profile, err := m.backend.Profile(ctx)
	if err != nil {
		return err
	}

	m.transition(StateAuthenticated, mergeIdentity(current, profile))
	return nil
}

// ResetPassword commits a password reset using an emailed token. Sessions
// are unaffected.
func (m *Manager) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if m.backend == nil {
		return domain.ErrServerOffline
	}
	return m.backend.ResetPassword(ctx, resetToken, newPassword)
}

// resolveUnknown settles an unresolved startup state to anonymous. Any
// other state is left as is.
func (m *Manager) resolveUnknown() {
	m.mu.Lock()
	if m.state != StateUnknown {
		m.mu.Unlock()
		return
	}
	m.state = StateAnonymous
	m.mu.Unlock()
	m.notify()
}

// transition swaps the state and identity atomically and fans out
func (m *Manager) transition(state State, id domain.Identity) State {
	m.mu.Lock()
	m.state = state
	m.identity = id
	m.mu.Unlock()
	m.notify()
	return state
}

// mergeIdentity layers profile fields over the token-decoded base, keeping
// the base where the profile is silent
func mergeIdentity(base, profile domain.Identity) domain.Identity {
	out := base
	if profile.ID != "" {
		out.ID = profile.ID
	}
	if profile.Email != "" {
		out.Email = profile.Email
	}
	if profile.DisplayName != "" {
		out.DisplayName = profile.DisplayName
	}
	if profile.Role != "" {
		out.Role = profile.Role
	}
	if profile.FirstName != "" {
		out.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		out.LastName = profile.LastName
	}
	if profile.FavouriteGenres != nil {
		out.FavouriteGenres = profile.FavouriteGenres
	}
	return out
}
