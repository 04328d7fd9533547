package authmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kyri56xcaesar/abac-front/internal/gateway"
	"kyri56xcaesar/abac-front/internal/logger"
)

const sessionKey = "abac.session"

// Auth builds one Session per request and gates the protected screens.
type Auth struct {
	API          gateway.Doer
	CookieName   string
	CookieSecure bool
	LoginPath    string
}

// SessionFor returns the request-scoped session, creating it on first use.
func (a *Auth) SessionFor(c *gin.Context) *Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := NewSession(NewCookieStore(c, a.CookieName, a.CookieSecure), a.API)
	c.Set(sessionKey, s)

	return s
}

// RequireSession redirects to the login screen when no token is present. Browsers get a
// 303, JSON callers a 401. The token is only checked for presence and shape.
func (a *Auth) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := a.SessionFor(c)

		userID, err := s.CurrentUserID()
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("no usable session")
			s.Logout()
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
				return
			}
			c.Redirect(http.StatusSeeOther, a.LoginPath)
			c.Abort()

			return
		}

		username, _ := s.CurrentUsername()
		c.Set("abac.user_id", userID)
		c.Set("abac.username", username)

		c.Next()
	}
}

func wantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.Query("format"), "json") {
		return true
	}

	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
