package rbac

import (
	"net/http"
)

// Require enforces a single permission against the role in the request context.
func (c *Checker) Require(perm string) func(http.Handler) http.Handler {
	return c.RequireAny(perm)
}

// RequireAny enforces that the role has at least one of the permissions.
func (c *Checker) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !c.Any(role, perms...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var defaultChecker = NewChecker(nil)

// Require uses the default policy.
func Require(perm string) func(http.Handler) http.Handler { return defaultChecker.Require(perm) }
