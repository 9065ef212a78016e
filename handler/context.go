package handler

import (
	"context"
	"net/http"
)

// contextKey is a custom context key type to prevent name collisions with
// external packages.
type contextKey string

const callerContextKey = contextKey("caller")

// anonymousCaller marks a request whose identity could not be established.
// Record identifiers start at 1, so 0 can never collide with a real caller.
const anonymousCaller int64 = 0

// contextSetCaller returns a copy of the request with the caller's user ID
// stored in the context.
func (h *Handler) contextSetCaller(r *http.Request, callerID int64) *http.Request {
	ctx := context.WithValue(r.Context(), callerContextKey, callerID)
	return r.WithContext(ctx)
}

// contextGetCaller retrieves the caller's user ID from the request context.
// The authenticate middleware sets it on every request, so a missing value is
// firmly an 'unexpected' error.
func (h *Handler) contextGetCaller(r *http.Request) int64 {
	callerID, ok := r.Context().Value(callerContextKey).(int64)
	if !ok {
		panic("missing caller value in request context")
	}
	return callerID
}
