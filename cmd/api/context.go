// cmd/api/context.go
// This file stores and retrieves the authenticated user on the request context.
package main

import (
	"context"
	"net/http"

	"github.com/aoideee/booktracker/internal/auth"
)

type contextKey string

const userContextKey = contextKey("user")

// contextSetUser returns a copy of r carrying user.
func (app *applicationDependencies) contextSetUser(r *http.Request, user *auth.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser returns the user placed on the context by
// requireAuthenticatedUser. It panics when called on an unauthenticated
// route, which recoverPanic turns into a 500.
func (app *applicationDependencies) contextGetUser(r *http.Request) *auth.User {
	user, ok := r.Context().Value(userContextKey).(*auth.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}
