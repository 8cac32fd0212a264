// Package signals derives device and network attributes from inbound request
// metadata. Extraction is a pure function of the request; nothing here reads
// ambient state or performs I/O.
package signals

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	ua "github.com/mileusna/useragent"

	"github.com/campushq/edge-auth/internal/domain"
	"github.com/campushq/edge-auth/internal/geo"
)

// fingerprintLen truncates the device fingerprint. The fingerprint is a join
// key for the trusted-device check only; collisions between devices with
// identical header sets are accepted, since recognition can only lower
// friction, never grant trust the account does not already have.
const fingerprintLen = 32

type Extractor struct {
	resolver geo.Resolver
}

func NewExtractor(resolver geo.Resolver) *Extractor {
	return &Extractor{resolver: resolver}
}

func (e *Extractor) Extract(r *http.Request) (domain.DeviceInfo, domain.GeoInfo) {
	rawUA := r.UserAgent()
	parsed := ua.Parse(rawUA)

	device := domain.DeviceInfo{
		DeviceID: Fingerprint(rawUA, r.Header.Get("Accept-Language"), r.Header.Get("Sec-CH-UA-Platform")),
		Type:     classify(parsed),
		Browser:  orUnknown(parsed.Name),
		OS:       orUnknown(parsed.OS),
		UserAgent: rawUA,
	}

	ip := ClientIP(r)
	loc := e.resolver.Resolve(ip)
	return device, domain.GeoInfo{
		IP:          ip,
		Country:     loc.Country,
		CountryCode: loc.CountryCode,
		City:        loc.City,
		Timezone:    loc.Timezone,
		ISP:         loc.ISP,
	}
}

// classify is priority ordered: tablet wins over mobile, bots are only
// flagged when neither matched, everything else is a desktop.
func classify(u ua.UserAgent) domain.DeviceType {
	switch {
	case u.Tablet:
		return domain.DeviceTablet
	case u.Mobile:
		return domain.DeviceMobile
	case u.Bot:
		return domain.DeviceBot
	}
	return domain.DeviceDesktop
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Fingerprint digests recurring request characteristics into the device join
// key. Deliberately low entropy; see DeviceID doc on domain.DeviceInfo.
func Fingerprint(userAgent, acceptLanguage, platform string) string {
	sum := sha256.Sum256([]byte(userAgent + "|" + acceptLanguage + "|" + platform))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// transport peer, falling back to a loopback marker.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if addr := strings.TrimSpace(r.RemoteAddr); addr != "" {
		return addr
	}
	return "127.0.0.1"
}
