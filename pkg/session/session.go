package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// Store wraps a cookie backed session store under a fixed session name, so
// call sites never have to agree on the name.
type Store struct {
	name  string
	store *sessions.CookieStore
}

func NewCookieStore(name string, keyPairs ...[]byte) *Store {
	store := sessions.NewCookieStore(keyPairs...)
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	return &Store{name: name, store: store}
}

// Get returns the session of the request. If the request carries no session
// cookie, or an undecodable one, the returned session is fresh.
func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, s.name)
}

func (s *Store) New(r *http.Request) (*sessions.Session, error) {
	return s.store.New(r, s.name)
}

func (s *Store) Save(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	return s.store.Save(r, w, sess)
}

// Destroy expires the session cookie of the request.
func (s *Store) Destroy(r *http.Request, w http.ResponseWriter, sess *sessions.Session) error {
	sess.Options.MaxAge = -1
	return s.store.Save(r, w, sess)
}
