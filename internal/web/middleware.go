package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oatsaysai/letters-to-kopi/internal/models"
	"github.com/oatsaysai/letters-to-kopi/internal/session"
)

const sessionKey = "session"

// requireSession rehydrates the caller's session from the cookie
func (s *Server) requireSession(c *gin.Context) {
	sess, ok := s.currentSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

// requireCreator rejects recipients; it must run after requireSession
func (s *Server) requireCreator(c *gin.Context) {
	if sessionFrom(c).Role != models.RoleCreator {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not available on this menu"})
		return
	}
	c.Next()
}

func (s *Server) currentSession(c *gin.Context) (*session.Session, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(token)
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// max age 0 leaves it a browser-session cookie
	c.SetCookie(sessionCookie, token, 0, "/", "", s.secureCookies(), true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.secureCookies(), true)
}
