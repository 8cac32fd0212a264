package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/campushq/edge-auth/internal/domain"
	"github.com/campushq/edge-auth/internal/http/response"
	"github.com/campushq/edge-auth/internal/observability"
	"github.com/campushq/edge-auth/internal/repository"
	"github.com/campushq/edge-auth/internal/security"
	"github.com/campushq/edge-auth/internal/service"
)

type AuthHandler struct {
	sessionSvc service.SessionServiceInterface
	users      repository.UserRepository
	passwords  service.PasswordVerifier
	attempts   service.LoginAttemptCounter
	cookieName string
}

func NewAuthHandler(
	sessionSvc service.SessionServiceInterface,
	users repository.UserRepository,
	passwords service.PasswordVerifier,
	attempts service.LoginAttemptCounter,
	cookieName string,
) *AuthHandler {
	return &AuthHandler{
		sessionSvc: sessionSvc,
		users:      users,
		passwords:  passwords,
		attempts:   attempts,
		cookieName: cookieName,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials through the application-tier collaborator and
// issues a session. Credential and infrastructure failures both surface as
// generic messages; which internal step failed is never leaked.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required", nil)
		return
	}

	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(r.Context(), "login", "invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
			return
		}
		observability.RecordAuthEvent(r.Context(), "login", "error")
		response.Error(w, r, http.StatusInternalServerError, "LOGIN_FAILED", "login failed", nil)
		return
	}

	ok, err := h.passwords.Verify(r.Context(), user.ID, req.Password)
	if err != nil {
		observability.RecordAuthEvent(r.Context(), "login", "error")
		response.Error(w, r, http.StatusInternalServerError, "LOGIN_FAILED", "login failed", nil)
		return
	}
	if !ok {
		if h.attempts != nil {
			_, _ = h.attempts.Increment(r.Context(), attemptKey(user.ID))
		}
		observability.RecordAuthEvent(r.Context(), "login", "invalid_credentials")
		response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
		return
	}

	session, cookie, err := h.sessionSvc.CreateSession(r.Context(), user.ID, domain.LoginPassword, r)
	if err != nil {
		observability.RecordAuthEvent(r.Context(), "login", "error")
		response.Error(w, r, http.StatusInternalServerError, "LOGIN_FAILED", "login failed", nil)
		return
	}
	if h.attempts != nil {
		_ = h.attempts.Reset(r.Context(), attemptKey(user.ID))
	}

	http.SetCookie(w, cookie)
	observability.RecordAuthEvent(r.Context(), "login", "success")
	response.JSON(w, r, http.StatusOK, session)
}

// Session returns the session authenticated by the request cookie.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.GetCurrentSession(r.Context(), security.GetCookie(r, h.cookieName))
	if err != nil {
		observability.RecordAuthEvent(r.Context(), "session", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to resolve session", nil)
		return
	}
	if session == nil {
		observability.RecordAuthEvent(r.Context(), "session", "unauthenticated")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "not authenticated", nil)
		return
	}
	observability.RecordAuthEvent(r.Context(), "session", "success")
	response.JSON(w, r, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.sessionSvc.Logout(r.Context(), security.GetCookie(r, h.cookieName))
	if err != nil {
		observability.RecordAuthEvent(r.Context(), "logout", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "logout failed", nil)
		return
	}
	http.SetCookie(w, cleared)
	observability.RecordAuthEvent(r.Context(), "logout", "success")
	response.JSON(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}

func attemptKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}
