package security

import (
	"net/http"
	"strings"
	"time"
)

type CookieManager struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// NewCookieManager configures the single session cookie. Domain should be the
// shared suffix (e.g. ".example.com") in production so the cookie crosses
// tenant subdomains, and empty in development where host-only scoping is the
// only portable behavior.
func NewCookieManager(name, domain string, secure bool, sameSite string) *CookieManager {
	ss := http.SameSiteLaxMode
	switch strings.ToLower(sameSite) {
	case "none":
		ss = http.SameSiteNoneMode
	case "strict":
		ss = http.SameSiteStrictMode
	}
	return &CookieManager{Name: name, Domain: domain, Secure: secure, SameSite: ss}
}

func (c *CookieManager) SessionCookie(sealed string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		Domain:   c.Domain,
		Expires:  expires,
	}
}

func (c *CookieManager) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		Domain:   c.Domain,
	}
}

func GetCookie(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func HasCookie(r *http.Request, name string) bool {
	return GetCookie(r, name) != ""
}
