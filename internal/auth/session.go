package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"acd-tierlist/internal/config"
	"acd-tierlist/internal/constants"
	"acd-tierlist/internal/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Session is an authenticated admin session. CSRFToken is the anti-forgery
// token mutating calls must echo back.
type Session struct {
	ID        string    `json:"id"`
	CSRFToken string    `json:"csrfToken"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionManager checks admin credentials and tracks live sessions in memory.
type SessionManager struct {
	username string
	password string
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]Session
	limiters map[string]*rate.Limiter
}

func NewSessionManager(cfg *config.Config, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		username: cfg.AdminUsername,
		password: cfg.AdminPassword,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		logger:   logger.With().Str("component", "auth").Logger(),
		sessions: make(map[string]Session),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (m *SessionManager) Login(username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	if !m.limiter(username).Allow() {
		metrics.LoginAttempt("rate_limited")
		m.logger.Warn().Str("username", username).Msg("login rate limited")
		return nil, ErrRateLimited
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	if !userOK || !passOK {
		metrics.LoginAttempt("rejected")
		m.logger.Warn().Str("username", username).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	csrf, err := gonanoid.New(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate csrf token: %w", err)
	}

	sess := Session{
		ID:        id,
		CSRFToken: csrf,
		Username:  m.username,
		ExpiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.pruneLocked()
	m.sessions[id] = sess
	m.mu.Unlock()

	metrics.LoginAttempt("ok")
	m.logger.Info().Str("username", username).Time("expires_at", sess.ExpiresAt).Msg("admin logged in")
	return &sess, nil
}

// Session returns the live session with the given id. Expired sessions are dropped.
func (m *SessionManager) Session(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if !m.now().Before(sess.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, false
	}
	return sess, true
}

func (m *SessionManager) IsAdmin(sessionID string) bool {
	_, ok := m.Session(sessionID)
	return ok
}

// AntiForgeryToken is empty when sessionID is not a live admin session.
func (m *SessionManager) AntiForgeryToken(sessionID string) string {
	sess, ok := m.Session(sessionID)
	if !ok {
		return ""
	}
	return sess.CSRFToken
}

// Verify reports whether token is the anti-forgery token of a live session.
func (m *SessionManager) Verify(sessionID, token string) (Session, bool) {
	sess, ok := m.Session(sessionID)
	if !ok || token == "" {
		return Session{}, false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) != 1 {
		return Session{}, false
	}
	return sess, true
}

func (m *SessionManager) Logout(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; ok {
		delete(m.sessions, sessionID)
		m.logger.Info().Msg("admin logged out")
	}
}

// pruneLocked drops expired sessions. Caller holds mu.
func (m *SessionManager) pruneLocked() {
	now := m.now()
	for id, sess := range m.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
}

// Unknown usernames share one limiter.
func (m *SessionManager) limiter(username string) *rate.Limiter {
	key := username
	if key != m.username {
		key = ""
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(constants.LoginRefillPeriod/constants.LoginBurst), constants.LoginBurst)
		m.limiters[key] = l
	}
	return l
}
