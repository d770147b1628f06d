package middleware

import (
	"net/http"

	"github.com/kantorkita/presensi-backend-go/internal/domain/auth"
	"github.com/kantorkita/presensi-backend-go/internal/handler/http/response"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuth protects machine-to-machine hooks. The configured value
// is a bcrypt hash, so a leaked config never exposes the key itself.
func APIKeyAuth(apiKeyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				response.HandleError(w, auth.ErrInvalidAPIKey)
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(apiKeyHash), []byte(key)); err != nil {
				response.HandleError(w, auth.ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
