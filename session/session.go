// Package session identifies anonymous storefront visitors. The id scopes a
// visitor's cart rows and is not an authentication mechanism: anyone holding
// it can read and change that cart.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderName        = "X-Session-ID"
	DefaultCookieName = "session_id"

	contextKey = "SessionID"
)

type Provider struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

func NewProvider(cookieName string, maxAge time.Duration, secure bool) *Provider {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Provider{CookieName: cookieName, MaxAge: maxAge, Secure: secure}
}

func generateSessionID() string {
	return uuid.NewString()
}

func validSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return id != "" && err == nil
}

// read prefers the explicit header (API clients) over the cookie (browsers).
func (p *Provider) read(c *gin.Context) string {
	if id := c.GetHeader(HeaderName); validSessionID(id) {
		return id
	}
	cookie, err := c.Cookie(p.CookieName)
	if err != nil || !validSessionID(cookie) {
		return ""
	}
	return cookie
}

func (p *Provider) write(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(p.CookieName, id, int(p.MaxAge/time.Second), "/", "", p.Secure, true)
}

// SessionID returns the visitor's id. The first call for a visitor without
// one generates it and writes the cookie; later calls return it unchanged.
func (p *Provider) SessionID(c *gin.Context) string {
	if id, ok := FromContext(c); ok {
		return id
	}
	id := p.read(c)
	if id == "" {
		id = generateSessionID()
		p.write(c, id)
	}
	c.Set(contextKey, id)
	c.Header(HeaderName, id)
	return id
}

func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.SessionID(c)
		c.Next()
	}
}

func FromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
