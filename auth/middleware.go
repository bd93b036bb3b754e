package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// rejectionBody is the JSON document written on rejection.
type rejectionBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Middleware rejects requests that a fails to authenticate with 401 and a
// JSON body. On success the identity is attached to the request context.
// A nil authenticator disables the check.
func Middleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if a == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			req := RequestFromHTTP(r)

			if !a.Supports(ctx, req) {
				writeUnauthorized(w, ErrMissingCredentials)
				return
			}
			result, err := a.Authenticate(ctx, req)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if !result.Authenticated {
				writeUnauthorized(w, result.Error)
				return
			}
			if result.Identity == nil {
				writeUnauthorized(w, ErrInvalidCredentials)
				return
			}
			if result.Identity.IsExpired() {
				writeUnauthorized(w, ErrTokenExpired)
				return
			}

			ctx = WithIdentity(ctx, result.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose identity lacks role with 403. It runs
// after Middleware; an empty role disables the check.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if role == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil || !id.HasRole(role) {
				writeRejection(w, http.StatusForbidden, "forbidden", fmt.Errorf("%w: %q", ErrMissingRole, role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	if err == nil {
		err = ErrInvalidCredentials
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="probekit"`)
	writeRejection(w, http.StatusUnauthorized, "unauthorized", err)
}

func writeRejection(w http.ResponseWriter, status int, reason string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejectionBody{
		Error:  reason,
		Detail: err.Error(),
	})
}
