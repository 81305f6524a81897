package httpserver

import (
	"net/http"
	"sort"
	"strings"

	"lremanager/backend/services/ledger-sink/internal/http/handlers"
	"lremanager/backend/services/ledger-sink/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	LedgerHandlers *handlers.LedgerHandlers
	HealthHandler  http.HandlerFunc
	MetricsHandler http.Handler
}

// NewRouter wires HTTP routes. authMiddleware guards the ledger API.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", method(http.MethodGet, deps.MetricsHandler))
	}

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	mux.Handle("/api/programs/{programId}/ledger", methods(map[string]http.Handler{
		http.MethodGet:  authenticated(deps.LedgerHandlers.List),
		http.MethodPost: authenticated(deps.LedgerHandlers.Create),
	}))
	mux.Handle("/api/ledger/{id}", method(http.MethodDelete, authenticated(deps.LedgerHandlers.Delete)))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return methods(map[string]http.Handler{expected: handler})
}

func methods(byMethod map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(byMethod))
	for m := range byMethod {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
