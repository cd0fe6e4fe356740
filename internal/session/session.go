// Package session holds the client's authentication state. The token is
// opaque here; issuing and validating it is the backend's business.
package session

import "sync"

// RedirectFunc is invoked when an operation requires authentication and the
// session has none. Interactive surfaces route it to their login screen.
type RedirectFunc func()

// Session is a mutex-guarded token holder shared by the stores and the
// gateway client.
type Session struct {
	mu       sync.RWMutex
	token    string
	redirect RedirectFunc
}

func New(redirect RedirectFunc) *Session {
	return &Session{redirect: redirect}
}

// SetToken installs the bearer token after login.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// ClearToken drops the token on logout.
func (s *Session) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Token returns the bearer token and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// RequestLogin fires the login-redirect signal, if one is wired.
func (s *Session) RequestLogin() {
	s.mu.RLock()
	redirect := s.redirect
	s.mu.RUnlock()
	if redirect != nil {
		redirect()
	}
}
