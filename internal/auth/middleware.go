package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/signup-site/internal/session"
)

// CookieName is the name of the session cookie.
const CookieName = "sid"

// SessionRequired is a Gin middleware that resolves the visitor session from
// the signed session cookie. A missing, invalid, expired or unknown cookie
// yields a new, mounted session. The cookie is re-signed on every request so
// it slides along with the session's idle expiry.
func SessionRequired(jwtManager *JWTManager, store *session.Store, secure bool, logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := lookup(c, jwtManager, store)
		created := false
		if !ok {
			sess = store.Create()
			created = true
		}

		token, err := jwtManager.GenerateSessionToken(sess.ID)
		if err != nil {
			if created {
				store.Delete(sess.ID)
			}
			logger.WithError(err).Error("failed to sign session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if created {
			if err := sess.Mount(c.Request.Context()); err != nil {
				logger.WithError(err).WithField("session_id", sess.ID).Warn("session mounted with errors")
			}
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, token, int(jwtManager.TTL().Seconds()), "/", "", secure, true)
		c.Set(sessionKey, sess)

		c.Next()
	}
}

func lookup(c *gin.Context, jwtManager *JWTManager, store *session.Store) (*session.Session, bool) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, false
	}

	claims, err := jwtManager.ParseAndValidate(raw)
	if err != nil {
		return nil, false
	}

	return store.Get(claims.SessionID)
}
