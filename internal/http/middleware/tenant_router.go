package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/campushq/edge-auth/internal/observability"
	"github.com/campushq/edge-auth/internal/security"
)

type RouteAction string

const (
	ActionNext     RouteAction = "next"
	ActionRewrite  RouteAction = "rewrite"
	ActionRedirect RouteAction = "redirect"
)

// Decision is the routing outcome for one request. Target is the rewritten
// path for ActionRewrite and the destination URL for ActionRedirect.
type Decision struct {
	Action    RouteAction
	Target    string
	Subdomain string
}

const (
	apiSubdomain = "api"
	wwwSubdomain = "www"
	apiPrefix    = "/api"
	// tenantRoot is the shared application subtree serving every tenant
	// subdomain.
	tenantRoot = "/s"

	HeaderSubdomain    = "X-Tenant-Subdomain"
	HeaderOriginalPath = "X-Original-Path"
)

var defaultStaticPrefixes = []string{"/_next", "/favicon.ico", "/images", "/public"}

var defaultAuthRoutes = []string{"/login", "/signup", "/forgot-password", "/reset-password", "/verify-email"}

type TenantRouterConfig struct {
	RootDomain     string
	Scheme         string
	CookieName     string
	StaticPrefixes []string
	AuthRoutes     []string
}

// TenantRouter classifies every inbound request by host and path. Route is a
// pure function of its arguments, safe under unlimited concurrency; the only
// session knowledge at this layer is cookie presence. Full cryptographic
// verification stays inside the tenant application so the per-request cost
// here is a string match, not an HMAC.
type TenantRouter struct {
	rootDomain     string
	scheme         string
	cookieName     string
	staticPrefixes []string
	authRoutes     []string
}

func NewTenantRouter(cfg TenantRouterConfig) (*TenantRouter, error) {
	root := strings.ToLower(strings.TrimSpace(cfg.RootDomain))
	if root == "" {
		return nil, errors.New("tenant router: root domain is required")
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}
	static := cfg.StaticPrefixes
	if len(static) == 0 {
		static = defaultStaticPrefixes
	}
	auth := cfg.AuthRoutes
	if len(auth) == 0 {
		auth = defaultAuthRoutes
	}
	return &TenantRouter{
		rootDomain:     root,
		scheme:         scheme,
		cookieName:     cfg.CookieName,
		staticPrefixes: static,
		authRoutes:     auth,
	}, nil
}

func (t *TenantRouter) Route(host, path string, hasCookie bool) Decision {
	for _, prefix := range t.staticPrefixes {
		if strings.HasPrefix(path, prefix) {
			return Decision{Action: ActionNext}
		}
	}

	sub := t.Subdomain(host)
	switch {
	case sub == apiSubdomain:
		target := path
		if !strings.HasPrefix(target, apiPrefix) {
			target = apiPrefix + target
		}
		return Decision{Action: ActionRewrite, Target: target, Subdomain: sub}

	case sub != "":
		isAPI := strings.HasPrefix(path, apiPrefix)
		if !isAPI && !t.isAuthRoute(path) && !hasCookie {
			login := fmt.Sprintf("%s://%s/login?from=%s", t.scheme, t.rootDomain, url.QueryEscape(sub))
			return Decision{Action: ActionRedirect, Target: login, Subdomain: sub}
		}
		if isAPI {
			return Decision{Action: ActionRewrite, Target: path, Subdomain: sub}
		}
		return Decision{Action: ActionRewrite, Target: tenantRoot + "/" + sub + path, Subdomain: sub}

	default:
		if t.isAuthRoute(path) && hasCookie {
			return Decision{Action: ActionRedirect, Target: "/"}
		}
		return Decision{Action: ActionNext}
	}
}

// Subdomain derives the tenant label from the host. Bare root, www and hosts
// outside the root domain all resolve to none.
func (t *TenantRouter) Subdomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil && h != "" {
		host = h
	}
	if host == t.rootDomain || host == wwwSubdomain+"."+t.rootDomain {
		return ""
	}
	rest, ok := strings.CutSuffix(host, "."+t.rootDomain)
	if !ok || rest == "" {
		return ""
	}
	label, _, _ := strings.Cut(rest, ".")
	if label == wwwSubdomain {
		return ""
	}
	return label
}

func (t *TenantRouter) isAuthRoute(path string) bool {
	for _, route := range t.authRoutes {
		if path == route || strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}

// Handler applies routing decisions as chi middleware. The resolved
// subdomain and original path are stamped on both the response and the
// request so downstream handlers recover tenant context without re-parsing
// the host.
func (t *TenantRouter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := t.Route(r.Host, r.URL.Path, security.HasCookie(r, t.cookieName))
		observability.RecordRoutingDecision(r.Context(), string(d.Action), d.Subdomain != "")

		w.Header().Set(HeaderSubdomain, d.Subdomain)
		w.Header().Set(HeaderOriginalPath, r.URL.Path)
		r.Header.Set(HeaderSubdomain, d.Subdomain)
		r.Header.Set(HeaderOriginalPath, r.URL.Path)

		switch d.Action {
		case ActionRedirect:
			http.Redirect(w, r, d.Target, http.StatusTemporaryRedirect)
			return
		case ActionRewrite:
			r.URL.Path = d.Target
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
