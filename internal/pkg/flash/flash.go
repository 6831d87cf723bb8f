// Package flash keeps one-shot user messages across a redirect in the session cookie.
package flash

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Middleware installs a cookie-backed session store named name.
func Middleware(name, secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(name, store)
}

// Add queues msg for the next rendered page.
func Add(c *gin.Context, msg string) {
	sess, ok := session(c)
	if !ok {
		return
	}
	sess.AddFlash(msg)
	if err := sess.Save(); err != nil {
		log.Printf("flash: save failed: %v", err)
	}
}

// Pop returns and clears pending messages.
func Pop(c *gin.Context) []string {
	sess, ok := session(c)
	if !ok {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(); err != nil {
		log.Printf("flash: save failed: %v", err)
	}

	msgs := make([]string, 0, len(raw))
	for _, m := range raw {
		if s, ok := m.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}

// session tolerates routers mounted without Middleware (e.g. in tests).
func session(c *gin.Context) (sessions.Session, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return nil, false
	}
	return sessions.Default(c), true
}
