package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/iamasit07/tic-tac-toe/backend/internal/service/auth"
	"github.com/iamasit07/tic-tac-toe/backend/internal/transport/http/middleware"
	"github.com/iamasit07/tic-tac-toe/backend/pkg/httputil"
	"go.uber.org/zap"
)

type AccountService interface {
	Register(ctx context.Context, nickname, email, password string) (*domain.Account, string, error)
	Login(ctx context.Context, email, password string) (*domain.Account, string, error)
	Account(ctx context.Context, userID int64) (*domain.Account, error)
}

type AuthHandler struct {
	Accounts AccountService
	Stats    StatsReader
	Cookies  httputil.CookieOptions
	TokenTTL TokenTTL
	log      *zap.SugaredLogger
}

// TokenTTL reports how long an access token lives.
type TokenTTL interface {
	TTL() time.Duration
}

func NewAuthHandler(accounts AccountService, stats StatsReader, cookies httputil.CookieOptions, ttl TokenTTL, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Stats: stats, Cookies: cookies, TokenTTL: ttl, log: logger}
}

type authResponse struct {
	Token string          `json:"token"`
	User  *domain.Account `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	account, token, err := h.Accounts.Register(r.Context(), req.Nickname, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidNickname), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrAccountExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.log.Errorw("[AUTH] register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.Cookies.SetAuthCookie(w, token, h.TokenTTL.TTL())
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: account})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	account, token, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.log.Errorw("[AUTH] login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.Cookies.SetAuthCookie(w, token, h.TokenTTL.TTL())
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: account})
}

// Logout drops the auth cookie. The guest cookie stays, so the browser
// falls back to its guest record.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.ClearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me describes the caller: the account when signed in, otherwise the guest.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	if id.IsAccount() {
		account, err := h.Accounts.Account(r.Context(), id.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load account")
			return
		}
		if account == nil {
			h.Cookies.ClearAuthCookie(w)
			writeError(w, http.StatusUnauthorized, "Account not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"guest": false, "user": account})
		return
	}

	record, err := h.Stats.Stats(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"guest": true, "guestId": id.GuestID, "stats": record})
}
