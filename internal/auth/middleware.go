package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const staffKey ctxKey = "staff"

// StaffFromContext returns the verified staff identity set by RequireAuth.
func StaffFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(staffKey).(Claims)
	return c, ok
}

// RequireAuth rejects requests without a valid Bearer token and stores
// the staff claims on the request context.
func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtSvc.Verify(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), staffKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
