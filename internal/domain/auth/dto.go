package auth

import (
	"strings"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))
	return validator.Struct(r)
}

type TokenResponse struct {
	AccessToken string                `json:"access_token"`
	TokenType   string                `json:"token_type"`
	ExpiresAt   int64                 `json:"expires_at"`
	Person      person.PersonResponse `json:"person"`
}
