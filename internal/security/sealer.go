package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
)

// Sealer signs opaque string payloads with HMAC-SHA256 so tampering is
// detectable without a server-side lookup. Secrets form an ordered rotation
// list: position 0 signs everything new, every position is a verification
// candidate, so operators can rotate without invalidating live sessions
// until the old secret is finally dropped.
type Sealer struct {
	secrets [][]byte
}

func NewSealer(secretList string) (*Sealer, error) {
	var secrets [][]byte
	for _, s := range strings.Split(secretList, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		secrets = append(secrets, []byte(s))
	}
	if len(secrets) == 0 {
		return nil, errors.New("sealer: no signing secrets configured")
	}
	return &Sealer{secrets: secrets}, nil
}

func (s *Sealer) sign(secret []byte, value string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	return mac.Sum(nil)
}

func (s *Sealer) Seal(value string) string {
	sig := s.sign(s.secrets[0], value)
	return value + "." + base64.RawURLEncoding.EncodeToString(sig)
}

// Unseal verifies a sealed value against every configured secret and returns
// the payload on the first match. The payload may itself contain dots, so the
// split is on the last one. All failure paths return ("", false); callers
// treat that as "not authenticated", never as a retryable error.
func (s *Sealer) Unseal(sealed string) (string, bool) {
	dot := strings.LastIndex(sealed, ".")
	if dot < 0 {
		return "", false
	}
	value := sealed[:dot]
	sig, err := base64.RawURLEncoding.DecodeString(sealed[dot+1:])
	if err != nil {
		return "", false
	}
	for _, secret := range s.secrets {
		// hmac.Equal is constant time; a timing oracle here would be an
		// authentication bypass.
		if hmac.Equal(sig, s.sign(secret, value)) {
			return value, true
		}
	}
	return "", false
}

// SealCookie binds the payload to its cookie name so a sealed value cannot be
// replayed under a different logical name.
func (s *Sealer) SealCookie(name, value string) string {
	return s.Seal(name + "=" + value)
}

func (s *Sealer) UnsealCookie(name, sealed string) (string, bool) {
	payload, ok := s.Unseal(sealed)
	if !ok {
		return "", false
	}
	value, ok := strings.CutPrefix(payload, name+"=")
	if !ok {
		return "", false
	}
	return value, true
}

// NewRandomString returns n bytes of cryptographically secure randomness,
// URL-safe encoded.
func NewRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
