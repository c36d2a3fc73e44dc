// cmd/api/handlers.go
// This file contains the HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies and runs behind
// requireAuthenticatedUser, so the caller's identity is on the context.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/booktracker/internal/data"
	"github.com/aoideee/booktracker/internal/validator"
)

// listBooksHandler handles GET /books.
// An optional ?status= restricts the list; unknown values are ignored.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	status := data.StatusFilter(r.URL.Query().Get("status"))

	books, err := app.models.Books.GetAllForUser(r.Context(), user.ID, status)
	if err != nil {
		app.storageErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, books, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBookHandler handles POST /books.
// The new book is owned by the caller and defaults to the reading status.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)

	// A body that is not valid JSON counts as {} so the required-field
	// checks below report it.
	var input data.CreateBookInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.logger.Debug("unreadable request body", "request_url", r.URL.String(), "error", err.Error())
		input = data.CreateBookInput{}
	}

	v := validator.New()
	if data.ValidateCreateBook(v, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v.Message())
		return
	}

	book := &data.Book{
		Title:  input.Title,
		Author: input.Author,
		Status: data.Status(input.Status),
		UserID: user.ID,
	}
	if book.Status == "" {
		book.Status = data.DefaultStatus
	}

	app.logger.Info("adding book",
		"user_id", user.ID,
		"title", book.Title,
		"author", book.Author,
		"status", book.Status,
	)

	err := app.models.Books.Insert(r.Context(), book)
	if err != nil {
		app.storageErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, book, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookStatusHandler handles PATCH /books/:id.
// Only the status field can change. When no owned book matches, the response
// is 200 with a null body unless strict not-found handling is enabled.
func (app *applicationDependencies) updateBookStatusHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	id := app.readIDParam(r)

	var input data.UpdateStatusInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.logger.Debug("unreadable request body", "request_url", r.URL.String(), "error", err.Error())
		input = data.UpdateStatusInput{}
	}

	v := validator.New()
	if data.ValidateUpdateStatus(v, &input); !v.Valid() {
		app.failedValidationResponse(w, r, v.Message())
		return
	}

	book, err := app.models.Books.UpdateStatus(r.Context(), id, user.ID, data.Status(input.Status))
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			if app.config.Server.StrictNotFound {
				app.notFoundResponse(w, r)
				return
			}
		default:
			app.storageErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusOK, book, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /books/:id.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	user := app.contextGetUser(r)
	id := app.readIDParam(r)

	err := app.models.Books.Delete(r.Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			if app.config.Server.StrictNotFound {
				app.notFoundResponse(w, r)
				return
			}
		default:
			app.storageErrorResponse(w, r, err)
			return
		}
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /healthz. It pings the store.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.models.Books.Ping(r.Context()); err != nil {
		app.serviceUnavailableResponse(w, r, err)
		return
	}

	body := envelope{
		"status":      "available",
		"environment": app.config.Server.Environment,
		"version":     appVersion,
	}
	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
