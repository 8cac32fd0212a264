package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/edge-auth/internal/domain"
)

func newSessionForTest(userID uint, token string) *domain.Session {
	return &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
		Status:    domain.SessionActive,
		Device: domain.DeviceInfo{
			DeviceID: "fp-abc",
			Type:     domain.DeviceDesktop,
			Browser:  "Chrome",
			OS:       "Linux",
		},
		Geo: domain.GeoInfo{IP: "203.0.113.7", CountryCode: "US"},
		Security: domain.SecurityInfo{
			LoginMethod: domain.LoginPassword,
			RiskScore:   30,
			RiskLevel:   domain.RiskMedium,
			IsVerified:  true,
		},
	}
}

func TestSessionRepositoryCreateAndFindByToken(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewSessionRepository(db)

	created := newSessionForTest(7, "tok-create-find")
	if err := repo.Create(created); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.FindByToken("tok-create-find")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != created.ID || got.UserID != 7 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.Status != domain.SessionActive {
		t.Fatalf("status = %s", got.Status)
	}
	if got.Device.DeviceID != "fp-abc" || got.Security.RiskLevel != domain.RiskMedium {
		t.Fatalf("embedded snapshots not persisted: %+v", got)
	}
}

func TestSessionRepositoryFindByTokenNotFound(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewSessionRepository(db)

	if _, err := repo.FindByToken("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryDuplicateTokenRejected(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewSessionRepository(db)

	if err := repo.Create(newSessionForTest(1, "tok-dup")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(newSessionForTest(2, "tok-dup")); err == nil {
		t.Fatal("expected unique index violation for duplicate token")
	}
}

func TestSessionRepositoryUpdateStatus(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewSessionRepository(db)

	s := newSessionForTest(3, "tok-logout")
	if err := repo.Create(s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdateStatus(s.ID, domain.SessionLoggedOut); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.FindByToken("tok-logout")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != domain.SessionLoggedOut {
		t.Fatalf("status = %s, want logged_out", got.Status)
	}

	if err := repo.UpdateStatus(uuid.NewString(), domain.SessionRevoked); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for unknown id, got %v", err)
	}
}
