package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"

	streamTokenLifetime = 5 * time.Minute
)

var ErrMissingClaims = errors.New("token is missing required claims")

// Claims is the identity carried by an access token.
type Claims struct {
	PersonID string
	Username string
	Role     person.Role
}

func (c Claims) IsAdmin() bool {
	return c.Role == person.RoleAdmin
}

type Service interface {
	GenerateAccessToken(personID string, username string, role person.Role) (token string, expiresAt int64, err error)
	// GenerateStreamToken issues a short-lived token for EventSource clients,
	// which cannot send an Authorization header.
	GenerateStreamToken(personID string) (token string, expiresIn int, err error)
	ValidateStreamToken(tokenString string) (personID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(personID string, username string, role person.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"person_id": personID,
		"username":  username,
		"role":      string(role),
		"type":      TokenTypeAccess,
		"exp":       expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) GenerateStreamToken(personID string) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(streamTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"person_id": personID,
		"type":      TokenTypeStream,
		"exp":       expiresAt,
	})
	if err != nil {
		return "", 0, err
	}
	return tokenString, int(streamTokenLifetime / time.Second), nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (personID string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeStream {
		return "", jwt.ErrInvalidJWT()
	}

	personIDVal, ok := token.Get("person_id")
	if !ok {
		return "", ErrMissingClaims
	}
	personID, ok = personIDVal.(string)
	if !ok || personID == "" {
		return "", ErrMissingClaims
	}
	return personID, nil
}

// ClaimsFromContext reads the verified access token placed on ctx by
// jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, raw, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, err
	}

	personID, _ := raw["person_id"].(string)
	username, _ := raw["username"].(string)
	role, _ := raw["role"].(string)
	if personID == "" || role == "" {
		return Claims{}, ErrMissingClaims
	}

	return Claims{
		PersonID: personID,
		Username: username,
		Role:     person.Role(role),
	}, nil
}
