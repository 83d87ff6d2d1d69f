package rbac

import (
	"net/http"

	"github.com/mind-engage/culturetest/internal/log"
)

var defaultChecker = NewChecker(nil)

// Require enforces a single permission against the role in the request context.
func Require(perm string) func(http.Handler) http.Handler {
	return defaultChecker.Require(perm)
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return defaultChecker.Require(perms...)
}

// Require lets the request through when the context role holds any of perms.
func (c *Checker) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !c.Any(role, perms...) {
				log.WithFields(log.Fields{"role": role, "perms": perms, "path": r.URL.Path}).Debugf("forbidden")
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
