package sessions

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "marbo-session"

	authenticatedSessionKey = "authenticated"
	identifierSessionKey    = "identifier"
)

// Gate is what the reconciliation engine reads to pick its strategy. It owns
// no cart data, only the single authenticated boolean.
type Gate interface {
	Authenticated() bool
}

// State is the in-process session gate. The HTTP layer mirrors the cookie
// session into it on every request; the engine reads it without ever seeing
// a request.
type State struct {
	mu            sync.RWMutex
	authenticated bool
}

func NewState() *State {
	return &State{}
}

func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *State) SetAuthenticated(v bool) {
	s.mu.Lock()
	s.authenticated = v
	s.mu.Unlock()
}

// SessionStore is the cookie-facing side of the gate.
type SessionStore interface {
	Authenticated(r *http.Request) bool
	SetAuthenticated(w http.ResponseWriter, r *http.Request, identifier string) error
	Identifier(r *http.Request) string
	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(7 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	// A decode error yields a fresh session; treated as unauthenticated.
	session, _ := c.store.Get(r, sessionCookieName)
	return session
}

func (c *CookieSessionStore) Authenticated(r *http.Request) bool {
	session := c.getSession(r)
	if session == nil {
		return false
	}
	v, ok := session.Values[authenticatedSessionKey].(bool)
	return ok && v
}

func (c *CookieSessionStore) Identifier(r *http.Request) string {
	session := c.getSession(r)
	if session == nil {
		return ""
	}
	id, _ := session.Values[identifierSessionKey].(string)
	return id
}

func (c *CookieSessionStore) SetAuthenticated(w http.ResponseWriter, r *http.Request, identifier string) error {
	session := c.getSession(r)
	session.Values[authenticatedSessionKey] = true
	session.Values[identifierSessionKey] = identifier
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
