package api

import (
	"net/http"

	"github.com/coffeegraph/coffeegraph/internal/observability"
)

const sessionCookie = "coffeegraph_session"

// ensureSession returns the caller's session identifier, minting and
// setting a new cookie when the request carries none.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := observability.NewTraceID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
