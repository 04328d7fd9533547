package authmw

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// TokenStore persists the single bearer token of a session.
type TokenStore interface {
	Load() (string, bool)
	Save(token string)
	Delete()
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *MemoryStore) Save(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *MemoryStore) Delete() {
	m.Save("")
}

// CookieStore keeps the token in the browser under a single cookie. A token saved
// during the request is visible to later loads of the same request.
type CookieStore struct {
	c      *gin.Context
	name   string
	secure bool

	written bool
	pending string
}

func NewCookieStore(c *gin.Context, name string, secure bool) *CookieStore {
	return &CookieStore{c: c, name: name, secure: secure}
}

func (s *CookieStore) Load() (string, bool) {
	if s.written {
		return s.pending, s.pending != ""
	}
	token, err := extractAccessToken(s.c, s.name)
	if err != nil {
		return "", false
	}

	return token, true
}

func (s *CookieStore) Save(token string) {
	s.written, s.pending = true, token
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, token, 0, "/", "", s.secure, true)
}

func (s *CookieStore) Delete() {
	s.written, s.pending = true, ""
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}

// extractAccessToken looks at the Authorization header first, then the session cookie.
func extractAccessToken(c *gin.Context, cookieName string) (string, error) {
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		if token := strings.TrimSpace(authz[7:]); token != "" {
			return token, nil
		}
	}

	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", ErrNoSession
}
