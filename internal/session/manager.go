// Package session owns the authentication state of the process: the token
// pair, the cached user profile, and the role-based post-login navigation.
// The Manager is the single writer of both the in-memory Session and the
// durable token store.
package session

import (
	"context"
	"sync"
	"time"

	"trainhub-session/internal/api"
	"trainhub-session/internal/audit"
	"trainhub-session/internal/common/errors"
	"trainhub-session/internal/common/logger"
	"trainhub-session/internal/common/metrics"
	"trainhub-session/internal/common/observability"
	"trainhub-session/internal/models"
	"trainhub-session/internal/store"
)

// Dependencies wires the Manager's collaborators. API and Store are
// required; the rest default to inert implementations.
type Dependencies struct {
	API       *api.Client
	Store     store.TokenStore
	Navigator Navigator
	Logger    logger.Logger
	Audit     *audit.Trail
	Obs       *observability.Observability
	Tracing   *observability.Tracing
}

// Manager owns the Session. All operations are serialized by one mutex, so
// a login racing a logout from duplicate triggers cannot interleave the
// storage writes.
type Manager struct {
	mu      sync.Mutex
	session models.Session

	api       *api.Client
	store     store.TokenStore
	navigator Navigator
	logger    logger.Logger
	audit     *audit.Trail
	obs       *observability.Observability
	tracing   *observability.Tracing
}

// NewManager creates the session manager with an unauthenticated session.
func NewManager(deps Dependencies) *Manager {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	nav := deps.Navigator
	if nav == nil {
		nav = NopNavigator{}
	}
	tracing := deps.Tracing
	if tracing == nil {
		tracing = observability.NewTracing("", "")
	}

	return &Manager{
		api:       deps.API,
		store:     deps.Store,
		navigator: nav,
		logger:    log,
		audit:     deps.Audit,
		obs:       deps.Obs,
		tracing:   tracing,
	}
}

// Initialize restores a persisted token pair and, when one exists, tries
// to populate the profile. A 401 during that fetch clears the stale
// tokens. The session always ends up in a well-defined state; the returned
// error reports storage trouble only.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pair, err := m.store.Load(ctx)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		m.logger.Warn("token restore failed, starting unauthenticated", map[string]interface{}{
			"error": err.Error(),
		})
		return errors.NewStorageError("read", err)
	}

	m.session.AccessToken = pair.Access
	m.session.RefreshToken = pair.Refresh
	m.session.IsLoading = true

	if profile, ok := m.fetchProfileLocked(ctx); ok {
		m.session.User = profile
		m.logger.Info("session restored", map[string]interface{}{
			"userId": profile.ID,
			"role":   string(profile.Role),
		})
	}

	m.session.IsLoading = false
	return nil
}

// Login exchanges the credentials for a token pair, persists it, fetches
// the profile and navigates to the role's dashboard. It reports success;
// the failure reason is available via LastError.
func (m *Manager) Login(ctx context.Context, identifier, secret string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, endSpan := m.tracing.StartSpan(ctx, "session.login")
	start := time.Now()

	m.session.IsLoading = true
	m.session.LastError = ""

	ok := m.loginLocked(ctx, identifier, secret)

	m.session.IsLoading = false

	outcome := "failure"
	if ok {
		outcome = "success"
	}
	metrics.SessionLogins.WithLabelValues(outcome).Inc()
	m.recordOperation(ctx, "login", outcome, time.Since(start))
	endSpan(outcome)

	return ok
}

func (m *Manager) loginLocked(ctx context.Context, identifier, secret string) bool {
	if identifier == "" || secret == "" {
		m.session.LastError = "Email and password are required"
		return false
	}

	pair, err := m.api.ExchangeCredentials(ctx, identifier, secret)
	if err != nil {
		m.session.LastError = errors.UserMessage(err)
		m.logger.Info("login rejected", map[string]interface{}{
			"identifier": identifier,
			"error":      errors.AsStandardError(err).Code,
		})
		m.audit.Record(ctx, audit.Event{
			Type:   audit.EventLoginFailed,
			Email:  identifier,
			Detail: m.session.LastError,
		})
		return false
	}

	if err := m.store.Save(ctx, pair); err != nil {
		// The session still works in-memory; it just won't survive a restart.
		m.logger.Warn("token persistence failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.session.AccessToken = pair.Access
	m.session.RefreshToken = pair.Refresh

	profile, ok := m.fetchProfileLocked(ctx)
	if !ok {
		return false
	}

	m.session.User = profile
	m.logger.Info("login succeeded", map[string]interface{}{
		"userId": profile.ID,
		"email":  profile.Email,
		"role":   string(profile.Role),
	})
	m.audit.Record(ctx, audit.Event{
		Type:   audit.EventLoginSucceeded,
		Email:  profile.Email,
		UserID: profile.ID,
		Role:   string(profile.Role),
	})

	m.navigator.Navigate(RouteForRole(profile.Role))
	return true
}

// Logout tears the session down. The backend notification is best-effort;
// local teardown always completes. Calling Logout on an unauthenticated
// session is a no-op apart from the landing-route navigation.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, endSpan := m.tracing.StartSpan(ctx, "session.logout")
	start := time.Now()

	if m.session.RefreshToken != "" {
		if err := m.api.NotifyLogout(ctx, m.session.RefreshToken); err != nil {
			m.logger.Warn("logout notification failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	hadUser := m.session.User != nil
	email := ""
	if hadUser {
		email = m.session.User.Email
	}

	m.clearLocked(ctx)

	if hadUser {
		m.audit.Record(ctx, audit.Event{
			Type:  audit.EventLogout,
			Email: email,
		})
	}
	m.logger.Info("logged out", nil)

	m.navigator.Navigate(RouteLanding)
	m.recordOperation(ctx, "logout", "success", time.Since(start))
	endSpan("success")
}

// RefreshProfile re-fetches the profile with the current access token,
// reconciling a session that holds a token but no user. Returns false
// when unauthenticated or when the fetch fails; a 401 clears the session.
func (m *Manager) RefreshProfile(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.AccessToken == "" {
		return false
	}

	m.session.IsLoading = true
	m.session.LastError = ""

	profile, ok := m.fetchProfileLocked(ctx)
	if ok {
		m.session.User = profile
	}

	m.session.IsLoading = false
	return ok
}

// IsAuthenticated reports whether both the profile and the access token
// are present. No side effects.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.IsAuthenticated()
}

// CurrentUser returns a copy of the cached profile, nil when absent.
func (m *Manager) CurrentUser() *models.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.User == nil {
		return nil
	}
	user := *m.session.User
	return &user
}

// AccessToken returns the current bearer credential, empty when absent.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.AccessToken
}

// IsLoading reports whether a login or profile fetch is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.IsLoading
}

// LastError returns the message of the most recent failed operation,
// empty after a successful one.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.LastError
}

// fetchProfileLocked fetches the profile for the session's access token.
// A 401 forces a local logout (no server notification, the token is
// already known-bad). Any other failure leaves the tokens in place:
// rolling them back would turn a transient 5xx into a full re-auth.
func (m *Manager) fetchProfileLocked(ctx context.Context) (*models.UserProfile, bool) {
	profile, err := m.api.FetchProfile(ctx, m.session.AccessToken)
	if err == nil {
		metrics.ProfileFetches.WithLabelValues("success").Inc()
		return profile, true
	}

	metrics.ProfileFetches.WithLabelValues("failure").Inc()

	if errors.IsSessionInvalidated(err) {
		m.logger.Info("session invalidated by backend, forcing logout", nil)
		metrics.SessionForcedLogouts.Inc()
		m.clearLocked(ctx)
		m.audit.Record(ctx, audit.Event{
			Type:   audit.EventForcedLogout,
			Detail: errors.UserMessage(err),
		})
		m.session.LastError = errors.UserMessage(err)
		return nil, false
	}

	m.session.LastError = errors.UserMessage(err)
	m.logger.Warn("profile fetch failed", map[string]interface{}{
		"error": errors.AsStandardError(err).Code,
	})
	return nil, false
}

// clearLocked removes the persisted tokens and resets the in-memory
// session. Storage failures are logged; local teardown never fails.
func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("token storage clear failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	m.session.Clear()
}

func (m *Manager) recordOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.obs == nil {
		return
	}
	m.obs.RecordOperation(ctx, operation, status)
	m.obs.RecordOperationDuration(ctx, operation, duration, status)
}
