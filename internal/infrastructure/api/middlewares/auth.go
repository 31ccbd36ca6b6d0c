package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/partycurrency/payment-service/internal/auth"
	"github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/pkg/log"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// AuthMiddleware validates the bearer token and injects the caller's claims
// into the request context.
func AuthMiddleware(issuer *auth.TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.Warn().Msg(errors.ErrAuthorizationRequired)
				errors.HandleHTTPError(w, errors.NewUnauthorizedError(errors.ErrAuthorizationRequired))
				return
			}

			claims, err := issuer.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				errors.HandleHTTPError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// ClaimsFromContext returns the authenticated caller's claims, or nil on
// unauthenticated paths.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
