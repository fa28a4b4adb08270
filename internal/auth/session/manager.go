package session

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/inkwell/internal/auth/token"
	"github.com/smallbiznis/inkwell/internal/config"
)

const (
	AccessTokenName  = "access_token"
	RefreshTokenName = "refresh_token"

	localsAccessKey  = "session.access_token"
	localsRefreshKey = "session.refresh_token"
)

// Manager resolves and writes the session cookies.
type Manager struct {
	environment string
	production  bool
	secure      bool
	policy      *config.SessionConfigHolder
	tokens      *token.Manager
}

func NewManager(cfg config.Config, policy *config.SessionConfigHolder, tokens *token.Manager) *Manager {
	return &Manager{
		environment: cfg.Environment,
		production:  cfg.IsProduction(),
		secure:      cfg.AuthCookieSecure,
		policy:      policy,
		tokens:      tokens,
	}
}

func (m *Manager) AccessCookieName() string {
	return m.cookieName(AccessTokenName)
}

func (m *Manager) RefreshCookieName() string {
	return m.cookieName(RefreshTokenName)
}

// Authenticate verifies the access token for this request. A missing or
// invalid token yields ok=false rather than an error.
func (m *Manager) Authenticate(c *gin.Context) (Session, bool) {
	raw, ok := m.ReadAccessToken(c)
	if !ok {
		return Session{}, false
	}
	claims, err := m.tokens.Verify(raw, token.TypeAccess)
	if err != nil {
		return Session{}, false
	}
	return FromClaims(claims), true
}

// ReadAccessToken looks at the request-local value first, then the primary
// cookie, then the legacy cookie when the fallback is enabled.
func (m *Manager) ReadAccessToken(c *gin.Context) (string, bool) {
	return m.read(c, localsAccessKey, AccessTokenName)
}

func (m *Manager) ReadRefreshToken(c *gin.Context) (string, bool) {
	return m.read(c, localsRefreshKey, RefreshTokenName)
}

// SetTokens stores the pair for the remainder of the request and on the client.
func (m *Manager) SetTokens(c *gin.Context, pair token.Pair) {
	c.Set(localsAccessKey, pair.AccessToken)
	c.Set(localsRefreshKey, pair.RefreshToken)

	m.writeCookie(c, m.AccessCookieName(), pair.AccessToken, m.tokens.AccessTTL())
	m.writeCookie(c, m.RefreshCookieName(), pair.RefreshToken, m.tokens.RefreshTTL())
}

// Clear expires both cookies. In production the legacy names are expired too.
func (m *Manager) Clear(c *gin.Context) {
	c.Set(localsAccessKey, "")
	c.Set(localsRefreshKey, "")

	names := []string{m.AccessCookieName(), m.RefreshCookieName()}
	if m.production {
		if prefix := m.legacyPrefix(); prefix != "" {
			names = append(names, prefix+"_"+AccessTokenName, prefix+"_"+RefreshTokenName)
		}
	}
	for _, name := range names {
		m.expireCookie(c, name)
	}
}

func (m *Manager) read(c *gin.Context, localsKey, base string) (string, bool) {
	if value := strings.TrimSpace(c.GetString(localsKey)); value != "" {
		return value, true
	}
	if value, ok := cookieValue(c, m.cookieName(base)); ok {
		return value, true
	}
	if legacy := m.legacyName(base); legacy != "" {
		return cookieValue(c, legacy)
	}
	return "", false
}

func (m *Manager) cookieName(base string) string {
	if m.production {
		return base
	}
	env := strings.TrimSpace(m.environment)
	if env == "" {
		return base
	}
	return env + "_" + base
}

func (m *Manager) legacyName(base string) string {
	if !m.production {
		return ""
	}
	policy := m.policy.Get()
	if !policy.LegacyFallback {
		return ""
	}
	prefix := strings.TrimSpace(policy.LegacyPrefix)
	if prefix == "" {
		return ""
	}
	return prefix + "_" + base
}

func (m *Manager) legacyPrefix() string {
	return strings.TrimSpace(m.policy.Get().LegacyPrefix)
}

func (m *Manager) writeCookie(c *gin.Context, name, value string, ttl time.Duration) {
	policy := m.policy.Get()
	maxAge := int(ttl.Seconds())
	c.SetSameSite(policy.SameSiteMode())
	c.SetCookie(name, value, maxAge, "/", policy.Domain, m.secure, true)
}

func (m *Manager) expireCookie(c *gin.Context, name string) {
	policy := m.policy.Get()
	c.SetSameSite(policy.SameSiteMode())
	c.SetCookie(name, "", -1, "/", policy.Domain, m.secure, true)
}

func cookieValue(c *gin.Context, name string) (string, bool) {
	value, err := c.Cookie(name)
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
