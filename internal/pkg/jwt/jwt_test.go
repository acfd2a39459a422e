package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/besti-sekretariat/besti-backend-go/internal/domain/person"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	token, expiresAt, err := svc.GenerateAccessToken("p-1", "rina", person.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.PersonID)
	assert.Equal(t, "rina", claims.Username)
	assert.True(t, claims.IsAdmin())
}

func TestStreamToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	token, expiresIn, err := svc.GenerateStreamToken("p-2")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	personID, err := svc.ValidateStreamToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p-2", personID)
}

func TestValidateStreamToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute)

	token, _, err := svc.GenerateAccessToken("p-1", "rina", person.RoleMember)
	require.NoError(t, err)

	_, err = svc.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestValidateStreamToken_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Minute)
	verifier := NewJWTService("secret-b", time.Minute)

	token, _, err := issuer.GenerateStreamToken("p-1")
	require.NoError(t, err)

	_, err = verifier.ValidateStreamToken(token)
	assert.Error(t, err)
}

func TestClaimsFromContext_NoToken(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}
