package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/edge-auth/internal/domain"
	"github.com/campushq/edge-auth/internal/repository"
	"github.com/campushq/edge-auth/internal/risk"
	"github.com/campushq/edge-auth/internal/security"
	"github.com/campushq/edge-auth/internal/signals"
)

// sessionTokenBytes is the entropy of the server-side token. The cookie only
// ever carries its sealed encoding.
const sessionTokenBytes = 48

type SessionServiceInterface interface {
	CreateSession(ctx context.Context, userID uint, method domain.LoginMethod, r *http.Request) (*domain.Session, *http.Cookie, error)
	GetCurrentSession(ctx context.Context, sealed string) (*domain.Session, error)
	Logout(ctx context.Context, sealed string) (*http.Cookie, error)
}

type SessionService struct {
	sessions repository.SessionRepository
	activity LoginActivityStore
	attempts LoginAttemptCounter
	engine   *risk.Engine
	signals  *signals.Extractor
	sealer   *security.Sealer
	cookies  *security.CookieManager
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(
	sessions repository.SessionRepository,
	activity LoginActivityStore,
	attempts LoginAttemptCounter,
	engine *risk.Engine,
	extractor *signals.Extractor,
	sealer *security.Sealer,
	cookies *security.CookieManager,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		activity: activity,
		attempts: attempts,
		engine:   engine,
		signals:  extractor,
		sealer:   sealer,
		cookies:  cookies,
		ttl:      ttl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateSession issues a fresh session for an already-authenticated user.
// The cookie is built last: if any persistence step fails the error
// propagates and no cookie exists for the caller to set.
func (s *SessionService) CreateSession(ctx context.Context, userID uint, method domain.LoginMethod, r *http.Request) (*domain.Session, *http.Cookie, error) {
	device, geo := s.signals.Extract(r)

	assessment, err := s.engine.Score(ctx, userID, device, geo)
	if err != nil {
		return nil, nil, fmt.Errorf("score login risk: %w", err)
	}

	token, err := security.NewRandomString(sessionTokenBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}

	// Advisory only; a counter read failure must not abort issuance.
	var failed int64
	if s.attempts != nil {
		if n, err := s.attempts.Count(ctx, fmt.Sprintf("user:%d", userID)); err == nil {
			failed = n
		}
	}

	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		Status:    domain.SessionActive,
		Device:    device,
		Geo:       geo,
		Security: domain.SecurityInfo{
			LoginMethod: method,
			RiskScore:   assessment.Score,
			RiskLevel:   assessment.Level,
			// Critical risk does not block issuance; the session is
			// issued unverified and downstream gates on IsVerified.
			IsVerified:     assessment.Level != domain.RiskCritical,
			FailedAttempts: int(failed),
		},
	}

	if err := s.sessions.Create(session); err != nil {
		return nil, nil, fmt.Errorf("persist session: %w", err)
	}

	rec := domain.LoginRecord{
		IP:          geo.IP,
		CountryCode: geo.CountryCode,
		Device:      device.Type,
		LoginAt:     now,
	}
	if err := s.activity.RecordLogin(ctx, userID, device.DeviceID, rec); err != nil {
		return nil, nil, fmt.Errorf("record login activity: %w", err)
	}

	sealed := s.sealer.SealCookie(s.cookies.Name, token)
	return session, s.cookies.SessionCookie(sealed, session.ExpiresAt), nil
}

// GetCurrentSession resolves a sealed cookie value to a usable session.
// Every failure short of a store outage is "not authenticated": (nil, nil).
func (s *SessionService) GetCurrentSession(ctx context.Context, sealed string) (*domain.Session, error) {
	token, ok := s.sealer.UnsealCookie(s.cookies.Name, sealed)
	if !ok {
		return nil, nil
	}
	session, err := s.sessions.FindByToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !session.Usable(s.now()) {
		return nil, nil
	}
	return session, nil
}

// Logout transitions the current session to LoggedOut, retained for audit,
// and returns the clearing cookie. The cookie is cleared even when no
// current session resolves.
func (s *SessionService) Logout(ctx context.Context, sealed string) (*http.Cookie, error) {
	session, err := s.GetCurrentSession(ctx, sealed)
	if err != nil {
		return nil, err
	}
	if session != nil {
		if err := s.sessions.UpdateStatus(session.ID, domain.SessionLoggedOut); err != nil {
			return nil, fmt.Errorf("mark session logged out: %w", err)
		}
	}
	return s.cookies.ClearSessionCookie(), nil
}
