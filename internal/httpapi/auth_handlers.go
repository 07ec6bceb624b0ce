package httpapi

import (
	"net/http"
	"strings"
	"time"

	"parish.org/internal/audit"
	"parish.org/internal/auth"
)

type tokenRequest struct {
	User    string   `json:"user"`
	Role    string   `json:"role"`
	Actions []string `json:"actions"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleAuthToken issues a development session token. It answers 403 unless
// dev tokens are enabled. Unknown tokens in actions are rejected so typos do
// not silently grant nothing.
func (a *API) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if !a.devTokens {
		writeError(w, r, http.StatusForbidden, "token issuing is disabled")
		return
	}
	if a.issuer == nil {
		writeError(w, r, http.StatusNotImplemented, "token issuing is disabled")
		return
	}

	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user := strings.TrimSpace(req.User)
	if user == "" {
		writeError(w, r, http.StatusBadRequest, "user is required")
		return
	}
	actions := make([]string, 0, len(req.Actions))
	for _, token := range req.Actions {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !auth.InCatalogue(token) {
			writeError(w, r, http.StatusBadRequest, "unknown permission "+token)
			return
		}
		actions = append(actions, token)
	}

	principal := auth.NewPrincipal(user, strings.TrimSpace(req.Role), actions)
	token, expiresAt, err := a.issuer.Issue(principal, a.tokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "token generation failed")
		return
	}

	_ = audit.LogEvent(r.Context(), principal, "auth.token.issued", map[string]any{
		"actions":    len(actions),
		"expires_at": expiresAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}
