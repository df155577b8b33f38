// Package adminclient drives an authenticated admin session against the
// API: it holds the bearer token, re-verifies it on a fixed interval and
// expires the session after a period of user inactivity, whichever comes
// first. The UI controller owns one Session per signed-in page and tears
// it down on navigation.
package adminclient

import (
	"errors"
	"net/http"
	"sync"
	"time"
)

// ErrSessionExpired is returned by Do once the session was cleared, by
// inactivity or by a failed re-verification.
var ErrSessionExpired = errors.New("admin session expired")

const (
	// DefaultInactivityTimeout matches the browser client: ten minutes
	// without user activity ends the session regardless of token expiry.
	DefaultInactivityTimeout = 10 * time.Minute
	// DefaultVerifyInterval is how often the token is re-checked against
	// the verify endpoint.
	DefaultVerifyInterval = 30 * time.Second
	// DefaultInactivityCheckInterval is how often the inactivity clock is
	// inspected.
	DefaultInactivityCheckInterval = time.Minute
)

// Session is the explicit session-context object: no package globals, no
// shared timer handles. All fields with defaults may be overridden before
// Start, which tests use to run the loops in milliseconds.
type Session struct {
	BaseURL    string
	HTTPClient *http.Client

	InactivityTimeout       time.Duration
	VerifyInterval          time.Duration
	InactivityCheckInterval time.Duration

	mu           sync.Mutex
	token        string
	lastActivity time.Time
	expired      bool

	onExpire func(reason string)
	done     chan struct{}
	closed   sync.Once
}

// New creates a session holding token. onExpire runs at most once, when
// the session ends for any reason other than Close; the browser client
// redirects to the login page here.
func New(baseURL, token string, onExpire func(reason string)) *Session {
	return &Session{
		BaseURL:                 baseURL,
		HTTPClient:              http.DefaultClient,
		InactivityTimeout:       DefaultInactivityTimeout,
		VerifyInterval:          DefaultVerifyInterval,
		InactivityCheckInterval: DefaultInactivityCheckInterval,
		token:                   token,
		lastActivity:            time.Now(),
		onExpire:                onExpire,
		done:                    make(chan struct{}),
	}
}

// Touch records user activity, pushing the inactivity deadline out. The
// UI calls this from its (debounced) interaction events and on
// tab-visibility regain.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Token returns the current token, or "" once the session expired.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Start launches the two independent timers: periodic re-verification and
// the inactivity check. They run until Close or until the session
// expires.
func (s *Session) Start() {
	go s.verifyLoop()
	go s.inactivityLoop()
}

// Close tears the timers down without firing onExpire. Page-teardown
// semantics: navigating away is not an auth failure.
func (s *Session) Close() {
	s.closed.Do(func() { close(s.done) })
}

// Do re-checks inactivity, attaches the bearer token and performs the
// request. A request racing the inactivity ticker at the boundary may
// still get through; that is acceptable.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	if s.expired || s.token == "" {
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}
	if time.Since(s.lastActivity) > s.InactivityTimeout {
		s.mu.Unlock()
		s.expire("inactivity")
		return nil, ErrSessionExpired
	}
	token := s.token
	s.mu.Unlock()

	req.Header.Set("Authorization", "Bearer "+token)
	return s.HTTPClient.Do(req)
}

func (s *Session) verifyLoop() {
	ticker := time.NewTicker(s.VerifyInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if !s.verifyOnce() {
				s.expire("unauthorized")
				return
			}
		}
	}
}

// verifyOnce calls the verify endpoint. A network failure counts as an
// auth failure: the browser client bails to login in both cases.
func (s *Session) verifyOnce() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/admin/verify", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (s *Session) inactivityLoop() {
	ticker := time.NewTicker(s.InactivityCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			inactive := time.Since(s.lastActivity) > s.InactivityTimeout
			s.mu.Unlock()
			if inactive {
				s.expire("inactivity")
				return
			}
		}
	}
}

// expire clears the token, stops the loops and fires onExpire once.
func (s *Session) expire(reason string) {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	s.token = ""
	callback := s.onExpire
	s.mu.Unlock()

	s.Close()
	if callback != nil {
		callback(reason)
	}
}
