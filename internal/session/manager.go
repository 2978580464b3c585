package session

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/domain"
)

type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
	StateRefreshing     State = "REFRESHING"
)

// Manager owns the authentication state machine: login, registration,
// logout, profile reads and updates. Token storage itself lives in Tokens;
// the manager coordinates the transitions around it.
type Manager struct {
	client *api.Client
	tokens *Tokens

	mu      sync.Mutex
	state   State
	profile *domain.Profile
}

type RegisterInput struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

type ProfileUpdate struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func NewManager(client *api.Client, tokens *Tokens) *Manager {
	m := &Manager{
		client: client,
		tokens: tokens,
		state:  StateAnonymous,
	}
	if _, ok := tokens.TokenPair(); ok {
		m.state = StateAuthenticated
	}
	// The pipeline drives the refresh leg of the state machine; the manager
	// only has to bring its own state in line.
	client.OnRefreshing(func() {
		m.setState(StateRefreshing)
	})
	client.OnRefreshed(func() {
		m.setState(StateAuthenticated)
	})
	client.OnSessionExpired(func() {
		m.mu.Lock()
		m.state = StateAnonymous
		m.profile = nil
		m.mu.Unlock()
	})
	return m
}

// Restore loads a persisted token pair and fetches the profile for it. An
// invalid pair is torn down rather than left half-alive.
func (m *Manager) Restore(ctx context.Context) error {
	if err := m.tokens.Load(ctx); err != nil {
		return err
	}
	if _, ok := m.tokens.TokenPair(); !ok {
		return nil
	}

	m.setState(StateAuthenticated)
	if _, err := m.CurrentUser(ctx); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return nil // pipeline already logged us out
		}
		m.Logout()
		return err
	}
	return nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	m.setState(StateAuthenticating)

	var pair domain.TokenPair
	body := map[string]string{"email": email, "password": password}
	if err := m.client.Post(ctx, "/token/", body, &pair); err != nil {
		m.setState(StateAnonymous)
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && (httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusBadRequest) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := m.tokens.SetPair(ctx, pair); err != nil {
		m.setState(StateAnonymous)
		return nil, err
	}
	m.setState(StateAuthenticated)

	return m.CurrentUser(ctx)
}

func (m *Manager) Register(ctx context.Context, input RegisterInput) (*domain.Profile, error) {
	m.setState(StateAuthenticating)

	var pair domain.TokenPair
	if err := m.client.Post(ctx, "/users/register/", input, &pair); err != nil {
		m.setState(StateAnonymous)
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest {
			return nil, &RegistrationError{Message: httpErr.Message, Fields: httpErr.Fields()}
		}
		return nil, err
	}

	if err := m.tokens.SetPair(ctx, pair); err != nil {
		m.setState(StateAnonymous)
		return nil, err
	}
	m.setState(StateAuthenticated)

	return m.CurrentUser(ctx)
}

// Logout clears both tokens and the cached profile. Safe to call in any
// state, any number of times.
func (m *Manager) Logout() {
	m.tokens.Invalidate()
	m.mu.Lock()
	m.state = StateAnonymous
	m.profile = nil
	m.mu.Unlock()
}

// CurrentUser fetches the profile from the API and caches it.
func (m *Manager) CurrentUser(ctx context.Context) (*domain.Profile, error) {
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	var profile domain.Profile
	if err := m.client.Get(ctx, "/users/me/", &profile); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.profile = &profile
	m.mu.Unlock()
	return &profile, nil
}

// Profile returns the cached profile without a network call.
func (m *Manager) Profile() *domain.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

func (m *Manager) UpdateProfile(ctx context.Context, patch ProfileUpdate) (*domain.Profile, error) {
	if !m.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	var profile domain.Profile
	if err := m.client.Put(ctx, "/users/update_profile/", patch, &profile); err != nil {
		return nil, asValidationError(err)
	}

	m.mu.Lock()
	m.profile = &profile
	m.mu.Unlock()
	return &profile, nil
}

func (m *Manager) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	body := map[string]string{
		"current_password":     current,
		"new_password":         next,
		"new_password_confirm": confirm,
	}
	if err := m.client.Post(ctx, "/users/change_password/", body, nil); err != nil {
		return asValidationError(err)
	}
	return nil
}

// IsAuthenticated reports whether a full token pair is present.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.tokens.TokenPair()
	return ok
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated {
		// The pipeline may have torn the pair down behind our back.
		if _, ok := m.tokens.TokenPair(); !ok {
			return StateAnonymous
		}
	}
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func asValidationError(err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest {
		fields := httpErr.Fields()
		if fields == nil {
			fields = map[string]string{"detail": httpErr.Message}
		}
		return &ValidationError{Fields: fields}
	}
	return err
}
