// cmd/api/errors.go
// This file contains all error-response helpers for the application.
// Every error body has the shape {"error": "<message>"}.
package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aoideee/booktracker/internal/auth"
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
	)
}

// errorResponse sends a JSON error envelope with the given status code and message.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := envelope{"error": message}
	err := app.writeJSON(w, status, data, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse handles failures that are not storage errors, such as
// panics or encoding problems. The client gets a fixed message.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "Server error")
}

// storageErrorResponse sends a 500 carrying the data store's own message.
func (app *applicationDependencies) storageErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, err.Error())
}

// unauthorizedResponse sends a 401. The message only says whether a token
// was present; provider-side reasons are logged at debug level.
func (app *applicationDependencies) unauthorizedResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := "Invalid token"
	if errors.Is(err, auth.ErrMissingToken) {
		message = "No token provided"
	}
	app.logger.Debug("authentication failed",
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
		slog.String("reason", err.Error()),
	)
	app.errorResponse(w, r, http.StatusUnauthorized, message)
}

// failedValidationResponse sends a 400 naming the first problem found.
func (app *applicationDependencies) failedValidationResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusBadRequest, message)
}

// notFoundResponse sends a 404 Not Found error.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// methodNotAllowedResponse sends a 405 Method Not Allowed error.
func (app *applicationDependencies) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "the " + r.Method + " method is not supported for this resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// serviceUnavailableResponse sends a 503 with the underlying reason.
func (app *applicationDependencies) serviceUnavailableResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusServiceUnavailable, err.Error())
}
