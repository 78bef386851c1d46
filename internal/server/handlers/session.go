package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/service/session"
)

// SessionCookie carries the operator session ID.
const SessionCookie = "portaria_session"

const sessionKey = "session"

// SessionMiddleware loads the operator session named by the cookie, creating a
// fresh one when absent or expired, and persists it once the handler returns.
func SessionMiddleware(store session.Store, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			loaded, err := store.Get(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case errors.Is(err, session.ErrSessionNotFound):
			default:
				logger.Error("failed to load session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
				return
			}
		}
		if sess == nil {
			sess = session.New()
		}

		c.SetCookie(SessionCookie, sess.ID, int(ttl.Seconds()), "/", "", false, true)
		c.Set(sessionKey, sess)

		c.Next()

		if err := store.Save(ctx, sess); err != nil {
			logger.Error("failed to save session", zap.Error(err), zap.String("session_id", sess.ID))
		}
	}
}

// RequireLogin rejects requests whose session is not authenticated.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).LoggedIn {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	if value, ok := c.Get(sessionKey); ok {
		if sess, ok := value.(*session.Session); ok {
			return sess
		}
	}
	sess := session.New()
	c.Set(sessionKey, sess)
	return sess
}
