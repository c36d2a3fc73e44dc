// cmd/api/middleware.go
// This file contains HTTP middleware used to wrap the router and individual routes.
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aoideee/booktracker/internal/auth"
	"github.com/aoideee/booktracker/internal/metrics"
)

// recoverPanic catches any runtime panic that occurs in a downstream handler
// and answers with a 500 instead of dropping the connection.
func (app *applicationDependencies) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requireAuthenticatedUser resolves the Authorization header to a user before
// next runs. Requests without a valid token never reach the store.
func (app *applicationDependencies) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		user, err := auth.Authenticate(r.Context(), app.verifier, r.Header.Get("Authorization"))
		if err != nil {
			app.unauthorizedResponse(w, r, err)
			return
		}

		next.ServeHTTP(w, app.contextSetUser(r, user))
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency for one route pattern.
func (app *applicationDependencies) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		metrics.RecordHTTPRequest(r.Method, route, rec.status, time.Since(start))
	}
}

// logRequest writes one debug-level access log line per request.
func (app *applicationDependencies) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		app.logger.Debug("request",
			"request_method", r.Method,
			"request_url", r.URL.String(),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
