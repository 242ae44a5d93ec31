package handlers

import "net/http"

// Decide maps an authorization outcome to an HTTP status. It distinguishes
// "you never proved who you are" (401) from "you proved who you are but lack
// permission" (403).
func Decide(authorized bool, id Identity) int {
	if authorized {
		return http.StatusOK
	}
	if !id.Authenticated() {
		return http.StatusUnauthorized
	}
	return http.StatusForbidden
}

// RequireUser gates a route on an authenticated identity. Guests get a 401
// challenge, authenticated-but-denied identities a 403.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identityFromContext(r.Context())

		switch status := Decide(id.Authenticated(), id); status {
		case http.StatusOK:
			next.ServeHTTP(w, r)
		case http.StatusUnauthorized:
			writeAuthProblem(w, "authentication required")
		default:
			writeProblem(w, status, "access denied")
		}
	})
}
