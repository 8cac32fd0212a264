package geo

import (
	"net"

	"github.com/campushq/edge-auth/internal/domain"
)

// Location is the set of attributes a geo database yields for an address.
type Location struct {
	Country     string
	CountryCode string
	City        string
	Timezone    string
	ISP         string
}

// Resolver maps a client IP to location attributes. A real GeoIP database is
// an external collaborator; the core only depends on this interface.
type Resolver interface {
	Resolve(ip string) Location
}

// LocalResolver is the built-in stub used when no GeoIP database is wired.
// Every address resolves to the unknown sentinel; loopback and private
// ranges are labeled Local so development logs stay readable. Risk scoring
// treats the sentinel country code as "no geo signal".
type LocalResolver struct{}

func NewLocalResolver() *LocalResolver { return &LocalResolver{} }

func (LocalResolver) Resolve(ip string) Location {
	loc := Location{
		Country:     "Unknown",
		CountryCode: domain.UnknownCountryCode,
		Timezone:    "UTC",
	}
	parsed := net.ParseIP(ip)
	if parsed != nil && (parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified()) {
		loc.Country = "Local"
	}
	return loc
}
