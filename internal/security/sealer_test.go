package security

import (
	"strings"
	"testing"
)

func TestNewSealerRejectsEmptySecretList(t *testing.T) {
	for _, in := range []string{"", " ", ",", " , ,"} {
		if _, err := NewSealer(in); err == nil {
			t.Fatalf("expected error for secret list %q", in)
		}
	}
}

func TestSealUnsealRoundTrip(t *testing.T) {
	s, err := NewSealer("secret-one")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"token", "", "value.with.dots", "a=b&c=d"} {
		got, ok := s.Unseal(s.Seal(v))
		if !ok || got != v {
			t.Fatalf("round trip %q: got %q ok=%v", v, got, ok)
		}
	}
}

func TestUnsealRejectsMutatedSignature(t *testing.T) {
	s, _ := NewSealer("secret-one")
	sealed := s.Seal("payload")
	dot := strings.LastIndex(sealed, ".")

	for i := dot + 1; i < len(sealed); i++ {
		mutated := []byte(sealed)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, ok := s.Unseal(string(mutated)); ok {
			t.Fatalf("accepted mutated signature at offset %d", i)
		}
	}
}

func TestUnsealMalformedInput(t *testing.T) {
	s, _ := NewSealer("secret-one")
	for _, in := range []string{"", "no-dot", "payload.", "payload.!!not-base64!!", "."} {
		if _, ok := s.Unseal(in); ok {
			t.Fatalf("accepted malformed input %q", in)
		}
	}
}

func TestUnsealAcceptsRotatedSecrets(t *testing.T) {
	old, _ := NewSealer("s1")
	sealed := old.Seal("session-token")

	rotated, _ := NewSealer("s2, s1")
	if got, ok := rotated.Unseal(sealed); !ok || got != "session-token" {
		t.Fatalf("expected rotated sealer to verify old value, got %q ok=%v", got, ok)
	}

	dropped, _ := NewSealer("s2")
	if _, ok := dropped.Unseal(sealed); ok {
		t.Fatal("expected verification failure once old secret is dropped")
	}
}

func TestSealCookieBindsName(t *testing.T) {
	s, _ := NewSealer("secret-one")
	sealed := s.SealCookie("edge_session", "tok123")

	got, ok := s.UnsealCookie("edge_session", sealed)
	if !ok || got != "tok123" {
		t.Fatalf("unseal cookie: got %q ok=%v", got, ok)
	}
	if _, ok := s.UnsealCookie("other_cookie", sealed); ok {
		t.Fatal("sealed cookie must not verify under a different name")
	}
}

func TestNewRandomStringLengthAndUniqueness(t *testing.T) {
	a, err := NewRandomString(48)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRandomString(48)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct random strings")
	}
	// 48 bytes -> 64 chars of unpadded base64url.
	if len(a) != 64 {
		t.Fatalf("unexpected encoded length: %d", len(a))
	}
}
