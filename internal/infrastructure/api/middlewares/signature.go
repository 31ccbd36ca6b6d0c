package middlewares

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/pkg/log"
)

const SignatureHeader = "monnify-signature"

// WebhookSignatureMiddleware verifies the provider's HMAC-SHA512 signature
// over the raw request body. A valid signature only proves the sender holds
// the secret; the payload is still treated as a trigger to re-query, never
// as authoritative state.
func WebhookSignatureMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()

			signature := r.Header.Get(SignatureHeader)
			if signature == "" {
				logger.Warn().Msg("webhook without signature")
				errors.HandleHTTPError(w, errors.NewUnauthorizedError("missing signature"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errors.HandleHTTPError(w, errors.NewValidationError("unreadable body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			mac := hmac.New(sha512.New, []byte(secret))
			mac.Write(body)
			expected := hex.EncodeToString(mac.Sum(nil))
			if !hmac.Equal([]byte(expected), []byte(signature)) {
				logger.Warn().Msg("webhook signature mismatch")
				errors.HandleHTTPError(w, errors.NewUnauthorizedError("invalid signature"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
