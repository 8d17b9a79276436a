// Package policy implements per-route authorization for the storefront.
//
// Instead of ordered middleware chaining, every route declares one of three
// capability levels and a single Guard evaluates it:
//
//	anonymous     no gate
//	authenticated valid bearer token required; the email identity is
//	              attached to the request context
//	admin         authenticated, and the caller's user record must carry
//	              role "admin"
//
// Status mapping: a missing credential is 401; an invalid or expired token,
// or a role mismatch, is 403. An absent user record is treated as "not
// admin", never as an internal error.
package policy

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/camtools/pkg/auth"
	"github.com/shashiranjanraj/camtools/pkg/response"
)

// Level is a route's required capability.
type Level int

const (
	Anonymous Level = iota
	Authenticated
	Admin
)

// AdminChecker reports whether the given email owns the admin role.
// Implementations must return false (not an error) for unknown users.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// identityKey is the unexported context key for the verified email identity.
type identityKey struct{}

// WithIdentity stores the verified email in ctx. Exposed for tests.
func WithIdentity(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, identityKey{}, email)
}

// IdentityFromCtx returns the verified email identity of the caller.
func IdentityFromCtx(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityKey{}).(string)
	return email, ok && email != ""
}

// Guard evaluates route policies. Build one at route-registration time with
// the user store's admin checker.
type Guard struct {
	admins AdminChecker
}

func NewGuard(admins AdminChecker) *Guard {
	return &Guard{admins: admins}
}

// Require returns the middleware enforcing the given level.
func (g *Guard) Require(level Level) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if level == Anonymous {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Unauthorized(w)
				return
			}

			claims, err := auth.VerifyToken(token)
			if err != nil {
				response.Forbidden(w)
				return
			}

			ctx := WithIdentity(r.Context(), claims.Email)

			if level == Admin {
				isAdmin, err := g.admins.IsAdmin(ctx, claims.Email)
				if err != nil || !isAdmin {
					response.Forbidden(w)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
