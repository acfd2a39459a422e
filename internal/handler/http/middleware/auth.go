package middleware

import (
	"net/http"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/handler/http/response"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens. Stream tokens are
// rejected here so they cannot be used against the rest of the API.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
