// Package httpapi serves the membership managers over the REST wire format
// the remote repository speaks. It backs local development and end-to-end
// tests of the client.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"parish.org/internal/auth"
	"parish.org/internal/membership"
	"parish.org/internal/obs"
)

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	managers   membership.Managers
	issuer     *auth.TokenIssuer
	tokenTTL   time.Duration
	version    string
	ratePerSec float64
	rateBurst  int
	devTokens  bool
}

// Option configures API.
type Option func(*API)

// WithRateLimit sets the per-client token bucket. A non-positive rate
// disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(a *API) {
		a.ratePerSec = perSecond
		a.rateBurst = burst
	}
}

// WithTokenTTL sets the lifetime of tokens issued by /v1/auth/token.
func WithTokenTTL(ttl time.Duration) Option {
	return func(a *API) {
		if ttl > 0 {
			a.tokenTTL = ttl
		}
	}
}

// WithDevTokens enables POST /v1/auth/token, which signs any requested role
// and actions. Leave it off outside local development.
func WithDevTokens(enabled bool) Option {
	return func(a *API) { a.devTokens = enabled }
}

func New(m membership.Managers, issuer *auth.TokenIssuer, version string, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		managers:   m,
		issuer:     issuer,
		tokenTTL:   15 * time.Minute,
		version:    version,
		ratePerSec: 20,
		rateBurst:  40,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /v1/info", a.Info)
	a.mux.Handle("GET /metrics", obs.Handler())
	a.mux.HandleFunc("POST /v1/auth/token", a.handleAuthToken)

	mount(a.mux, membership.CollectionMembers, m.Members)
	mount(a.mux, membership.CollectionFellowships, m.Fellowships)
	mount(a.mux, membership.CollectionEnvelopes, m.Envelopes)
	mount(a.mux, membership.CollectionRoles, m.Roles)
	mount(a.mux, membership.CollectionUsers, m.Users)
	mount(a.mux, membership.CollectionVolunteers, m.Volunteers)

	return a
}

// Handler returns the mux wrapped in the middleware chain.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = SecurityHeaders(h)
	h = Logging(h)
	return RequestID(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "parish-api",
		"version": a.version,
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "parish-api",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"version":     a.version,
		"permissions": auth.Catalogue(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
