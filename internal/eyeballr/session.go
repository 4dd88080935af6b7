package eyeballr

import (
	"maps"
	"strings"
)

// Session carries everything one upload run threads through its requests:
// the service base URL, the ticket once acquired and the cookie jar.
// It is owned by a single goroutine.
type Session struct {
	BaseURL string
	Ticket  string
	Cookies map[string]string
}

func NewSession(baseURL string) *Session {
	return &Session{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Cookies: make(map[string]string),
	}
}

// SetCookie seeds a cookie before the first request.
func (s *Session) SetCookie(name, value string) {
	s.Cookies[name] = value
}

// ReplaceCookies swaps the jar for exactly the given cookies.
func (s *Session) ReplaceCookies(cookies map[string]string) {
	jar := make(map[string]string, len(cookies))
	maps.Copy(jar, cookies)
	s.Cookies = jar
}

// MergeCookies assigns the given cookies over the current jar.
func (s *Session) MergeCookies(cookies map[string]string) {
	if len(cookies) == 0 {
		return
	}
	jar := maps.Clone(s.Cookies)
	if jar == nil {
		jar = make(map[string]string, len(cookies))
	}
	maps.Copy(jar, cookies)
	s.Cookies = jar
}
