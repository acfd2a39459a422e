package middleware

import (
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
)

// AdminOnly lets the secretariat coordinator through. Must run after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		if !claims.IsAdmin() {
			response.HandleError(w, auth.ErrAdminRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
