//go:build testutil
// +build testutil

package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
	"instituto-backend/internal/testutil/testdb"
)

func TestProfileLifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	created, err := svc.Create(ctx, CreateProfileRequest{
		Email:        "Maria.Silva@Example.com",
		Password:     "segredo123",
		NomeCompleto: "Maria Silva",
		Role:         string(models.Aluno),
		Unidade:      string(models.CarmemCristina),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "maria.silva@example.com", created.Email)

	// Duplicate email is a conflict.
	var api *APIError
	_, err = svc.Create(ctx, CreateProfileRequest{
		Email:        "maria.silva@example.com",
		Password:     "outro",
		NomeCompleto: "Outra Maria",
		Role:         string(models.Aluno),
		Unidade:      string(models.CarmemCristina),
	})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeConflict, api.Code)

	// Unknown role and unit are invalid.
	_, err = svc.Create(ctx, CreateProfileRequest{
		Email: "x@example.com", Password: "p", NomeCompleto: "X",
		Role: "gestor", Unidade: string(models.CarmemCristina),
	})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	// Own update touches only the provided fields.
	tel := "(19) 99999-0000"
	caller := auth.Identity{UserID: created.ID, Role: models.Aluno}
	updated, err := svc.UpdateOwn(ctx, caller, UpdateProfileRequest{Telefone: &tel})
	require.NoError(t, err)
	require.NotNil(t, updated.Telefone)
	assert.Equal(t, tel, *updated.Telefone)
	assert.Equal(t, "Maria Silva", updated.NomeCompleto)

	// Admin can change the role.
	role := string(models.Professor)
	promoted, err := svc.UpdateByAdmin(ctx, created.ID, AdminUpdateProfileRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, string(models.Professor), promoted.Role)

	// Listing filters by role.
	filtro := string(models.Professor)
	items, total, err := svc.List(ctx, ListQuery{Role: &filtro})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].ID)

	// Unknown id reads NOT_FOUND.
	_, err = svc.Get(ctx, "nao-existe")
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeNotFound, api.Code)
}
