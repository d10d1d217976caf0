// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/jsonutil"
	"github.com/dalemusser/cleansite/internal/app/system/normalize"
)

// Visitor is the role reported for requests with no resolved session.
const Visitor = "visitor"

// UserCtx returns the user's role (lowercased), name, ID, and a found flag.
// If no user is present in context, or the user carries an ID or role we do
// not recognize, it returns "visitor", "", "", false. Callers can trust that
// ok=true means a resolved session with one of the known roles.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user == nil || user.ID == "" {
		return Visitor, "", "", false
	}
	role = normalize.Role(user.Role)
	if !auth.KnownRole(role) {
		// Fail closed: an unrecognized role is treated as no session.
		return Visitor, "", "", false
	}
	return role, user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == auth.RoleAdmin
}

// IsLoggedIn reports whether there is a resolved session on the request.
func IsLoggedIn(r *http.Request) bool {
	_, _, _, ok := UserCtx(r)
	return ok
}

// HasRole reports whether the current user has one of the specified roles.
func HasRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if normalize.Role(allowed) == role {
			return true
		}
	}
	return false
}

// RequireRole returns middleware that lets through only users holding one of
// roles. Everyone else, signed in or not, gets a 401 envelope.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r, roles...) {
				jsonutil.Unauthorized(w, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireWriter admits only callers allowed to mutate content (admin).
func RequireWriter(next http.Handler) http.Handler {
	return RequireRole(auth.RoleAdmin)(next)
}
