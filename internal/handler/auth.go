package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/design-crm/internal/auth"
	"github.com/sakif/design-crm/internal/service"
)

// AuthHandler manages the OIDC login flow and session cookie.
//
//   - HandleLogin    → redirect the browser to the provider's sign-in page
//   - HandleCallback → receive the code, exchange it, upsert the user, set the cookie
//   - HandleLogout   → clear the session cookie
//   - HandleUser     → return the currently signed-in user's profile
type AuthHandler struct {
	provider *auth.Provider
	auths    *service.AuthService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(provider *auth.Provider, auths *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		auths:    auths,
		logger:   logger,
	}
}

// sessionCookieMaxAge matches the JWT lifetime so the browser drops the
// cookie around the time the token stops validating.
var sessionCookieMaxAge = int((24 * time.Hour).Seconds())

// HandleLogin redirects the user to the identity provider.
//
// HTTP: GET /auth/login
//
// A random state value goes into a short-lived cookie; the callback checks
// it to block CSRF-initiated flows.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OIDC login flow.
//
// HTTP: GET /auth/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization",
			slog.String("error", errParam),
		)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	claims, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: code exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	result, err := h.auths.LoginOrRegister(r.Context(), claims)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.String("subject", claims.Subject),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// HttpOnly keeps the token away from page JavaScript; SameSite=Lax keeps
	// it off cross-site POSTs.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production (requires HTTPS)
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
//
// Sessions are stateless JWTs, so logout just deletes the client-side
// cookie; the token itself expires on its own schedule.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleUser returns the currently authenticated user's profile.
//
// HTTP: GET /api/auth/user
// Auth: Required (RequireAuth middleware sets userID in context)
func (h *AuthHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable on a RequireAuth-protected route, but be safe.
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.auths.GetUserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("HandleUser: user lookup failed", slog.String("userID", userID))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
