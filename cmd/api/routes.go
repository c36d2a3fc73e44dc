// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in middleware.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequest → cors → router
//
// Current endpoints:
//
//	GET    /books        – list the caller's books, optional ?status=
//	POST   /books        – create a book owned by the caller
//	PATCH  /books/:id    – change the status of one of the caller's books
//	DELETE /books/:id    – delete one of the caller's books
//	GET    /healthz      – storage reachability
//	GET    /metrics      – Prometheus exposition
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/books", app.instrument("/books", app.requireAuthenticatedUser(app.listBooksHandler)))
	router.HandlerFunc(http.MethodPost, "/books", app.instrument("/books", app.requireAuthenticatedUser(app.createBookHandler)))
	router.HandlerFunc(http.MethodPatch, "/books/:id", app.instrument("/books/:id", app.requireAuthenticatedUser(app.updateBookStatusHandler)))
	router.HandlerFunc(http.MethodDelete, "/books/:id", app.instrument("/books/:id", app.requireAuthenticatedUser(app.deleteBookHandler)))

	router.HandlerFunc(http.MethodGet, "/healthz", app.instrument("/healthz", app.healthcheckHandler))
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})

	return app.recoverPanic(app.logRequest(corsHandler(router)))
}
