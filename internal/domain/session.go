package domain

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionExpired   SessionStatus = "expired"
	SessionRevoked   SessionStatus = "revoked"
	SessionLoggedOut SessionStatus = "logged_out"
)

type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceTablet  DeviceType = "tablet"
	DeviceMobile  DeviceType = "mobile"
	DeviceBot     DeviceType = "bot"
)

type LoginMethod string

const (
	LoginPassword LoginMethod = "password"
	LoginOAuth    LoginMethod = "oauth"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// UnknownCountryCode is the sentinel used when the client address is
// loopback, private, or otherwise unresolvable. ZZ is the ISO 3166
// user-assigned code for "unknown".
const UnknownCountryCode = "ZZ"

// DeviceInfo is the device snapshot captured at session issuance. DeviceID is
// a low-entropy join key for the trusted-device check, not a cryptographic
// identifier; Browser and OS are advisory only.
type DeviceInfo struct {
	DeviceID  string     `gorm:"size:64;index" json:"device_id"`
	Type      DeviceType `gorm:"size:16" json:"type"`
	Browser   string     `gorm:"size:32" json:"browser"`
	OS        string     `gorm:"size:32" json:"os"`
	UserAgent string     `gorm:"size:512" json:"-"`
}

type GeoInfo struct {
	IP          string `gorm:"size:64" json:"ip"`
	Country     string `gorm:"size:64" json:"country"`
	CountryCode string `gorm:"size:8" json:"country_code"`
	City        string `gorm:"size:64" json:"city"`
	Timezone    string `gorm:"size:64" json:"timezone"`
	ISP         string `gorm:"size:128" json:"isp"`
}

type SecurityInfo struct {
	LoginMethod    LoginMethod `gorm:"size:16" json:"login_method"`
	RiskScore      int         `json:"risk_score"`
	RiskLevel      RiskLevel   `gorm:"size:16" json:"risk_level"`
	IsVerified     bool        `json:"is_verified"`
	FailedAttempts int         `json:"failed_attempts"`
}

type Session struct {
	ID        string        `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint          `gorm:"index;not null" json:"user_id"`
	Token     string        `gorm:"size:128;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time     `gorm:"index;not null" json:"expires_at"`
	Status    SessionStatus `gorm:"size:16;index;not null;default:active" json:"status"`
	Device    DeviceInfo    `gorm:"embedded;embeddedPrefix:device_" json:"device"`
	Geo       GeoInfo       `gorm:"embedded;embeddedPrefix:geo_" json:"geo"`
	Security  SecurityInfo  `gorm:"embedded;embeddedPrefix:security_" json:"security"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Usable reports whether the session may authenticate a request. Expiry is
// re-checked on every read; the store is not required to sweep eagerly.
func (s *Session) Usable(now time.Time) bool {
	return s.Status == SessionActive && now.Before(s.ExpiresAt)
}

// LoginRecord is one entry of a user's bounded login history, most recent
// first. History and the trusted-device set are append-only: entries are
// evicted past the cap but never rolled back.
type LoginRecord struct {
	IP          string     `json:"ip"`
	CountryCode string     `json:"country_code"`
	Device      DeviceType `json:"device"`
	LoginAt     time.Time  `json:"login_at"`
}

type RiskAssessment struct {
	Score int       `json:"score"`
	Level RiskLevel `json:"level"`
}
