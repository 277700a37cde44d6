//go:build testutil
// +build testutil

package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instituto-backend/internal/models"
	"instituto-backend/internal/testutil/testdb"
)

func TestRegisterAndLogin(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	secret := []byte("integration-secret")
	svc := NewService(h.DB, secret)

	acct, err := svc.Register(ctx, RegisterRequest{
		Email:        "  Joao@Example.COM ",
		Password:     "senha-forte",
		NomeCompleto: "João Pereira",
		Role:         string(models.Aluno),
		Unidade:      string(models.SaoClemente),
	})
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", acct.Email)
	assert.Equal(t, models.Aluno, acct.Role)

	// Same email again fails.
	_, err = svc.Register(ctx, RegisterRequest{
		Email:        "joao@example.com",
		Password:     "outra",
		NomeCompleto: "Outro João",
		Role:         string(models.Aluno),
		Unidade:      string(models.SaoClemente),
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Login yields a verifiable HS256 token with sub and role claims.
	token, err := svc.Login(ctx, "joao@example.com", "senha-forte")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, acct.ID, claims["sub"])
	assert.Equal(t, string(models.Aluno), claims["role"])

	// Wrong password and unknown email both fail the same way.
	_, err = svc.Login(ctx, "joao@example.com", "errada")
	assert.ErrorIs(t, err, ErrAuthFailed)
	_, err = svc.Login(ctx, "ninguem@example.com", "senha")
	assert.ErrorIs(t, err, ErrAuthFailed)

	// Invalid role is rejected before touching the store.
	_, err = svc.Register(ctx, RegisterRequest{
		Email: "a@b.c", Password: "p", NomeCompleto: "A",
		Role: "chefe", Unidade: string(models.SaoClemente),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
