// internal/api/router.go
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"manara-backend/internal/account"
	"manara-backend/internal/common/observability"
	"manara-backend/internal/search"
	"manara-backend/internal/webhook"
)

// Deps holds the handlers the router wires up.
type Deps struct {
	Webhook *webhook.Handler
	Search  *search.Handler
	Account *account.Handler

	// Obs, when set, records per-route request counts and durations.
	Obs *observability.Observability

	// Ready reports whether dependencies (store, redis) are reachable.
	Ready func() bool
}

// NewRouter builds the full HTTP route table.
func NewRouter(deps Deps) *mux.Router {
	r := mux.NewRouter()

	if deps.Obs != nil {
		r.Use(requestMetricsMiddleware(deps.Obs))
	}

	r.HandleFunc("/api/sanity/webhook", deps.Webhook.HandlePost).Methods(http.MethodPost)
	r.HandleFunc("/api/sanity/webhook", deps.Webhook.HandleGet).Methods(http.MethodGet)

	r.HandleFunc("/api/search", deps.Search.HandleGet).Methods(http.MethodGet)

	r.HandleFunc("/api/account/otp/request", deps.Account.HandleOTPRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/account/otp/verify", deps.Account.HandleOTPVerify).Methods(http.MethodPost)
	r.HandleFunc("/api/account/password", deps.Account.HandlePasswordChange).Methods(http.MethodPost)
	r.HandleFunc("/api/account/email", deps.Account.HandleEmailChange).Methods(http.MethodPost)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler(deps.Ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// requestMetricsMiddleware records count and duration per route template.
func requestMetricsMiddleware(obs *observability.Observability) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tmpl, err := cur.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			obs.RecordRequest(r.Context(), route, strconv.Itoa(sw.status))
			obs.RecordRequestDuration(r.Context(), route, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func readyHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := "ready"
		code := http.StatusOK
		if ready != nil && !ready() {
			status = "not_ready"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
