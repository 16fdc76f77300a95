// README: Session gate and driver gate middleware.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
)

const userKey = "session.user"

// SessionGate rejects requests when nobody is logged in. Every screen behind
// the login wall sits behind this one check instead of each handler probing
// the session itself.
func SessionGate(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := sessions.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "please log in",
			})
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// DriverGate additionally requires the driver capability. Runs after
// SessionGate. Approval is checked by the screen itself: an enrolled but
// unapproved driver still reaches it and sees the under-review state.
func DriverGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok || u.Driver == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "driver enrollment required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user SessionGate stashed on the request.
func CurrentUser(c *gin.Context) (session.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return session.User{}, false
	}
	u, ok := v.(session.User)
	return u, ok
}
