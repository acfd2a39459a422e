package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/auth"
	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/besti-sekretariat/besti-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	people     person.Directory
	jwtService jwt.Service
	logger     *slog.Logger
}

func NewAuthService(people person.Directory, jwtService jwt.Service, logger *slog.Logger) auth.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		people:     people,
		jwtService: jwtService,
		logger:     logger.With(slog.String("service", "auth")),
	}
}

// HashPassword is used when seeding members.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	member, err := a.people.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, person.ErrPersonNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to look up member: %w", err)
	}
	if member.PasswordHash == nil || *member.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*member.PasswordHash), []byte(req.Password)); err != nil {
		a.logger.Warn("failed login", "username", req.Username)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.jwtService.GenerateAccessToken(member.ID, member.Username, member.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	a.logger.Info("login", "person_id", member.ID, "role", member.Role)
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Person:      person.ToResponse(member),
	}, nil
}
