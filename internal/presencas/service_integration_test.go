//go:build testutil
// +build testutil

package presencas

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
	"instituto-backend/internal/testutil/testdb"
)

func seedProfile(t *testing.T, db *sql.DB, role models.Role, unidade models.Unidade) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
	INSERT INTO profiles (id, email, password_hash, nome_completo, role, unidade)
	VALUES (?, ?, 'x', ?, ?, ?)`,
		id, id+"@test.local", "Perfil "+id[:8], string(role), string(unidade))
	require.NoError(t, err)
	return id
}

func seedModalidade(t *testing.T, db *sql.DB, professorID string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
	INSERT INTO modalidades (id, nome, unidade, professor_id, vagas_maximas, ativo)
	VALUES (?, ?, ?, ?, 30, 1)`,
		id, string(models.Ballet), string(models.CarmemCristina), professorID)
	require.NoError(t, err)
	return id
}

func seedInscricaoAtiva(t *testing.T, db *sql.DB, alunoID, modalidadeID string) {
	t.Helper()
	_, err := db.Exec(`
	INSERT INTO inscricoes (id, aluno_id, modalidade_id, status)
	VALUES (?, ?, ?, 'ativo')`, uuid.NewString(), alunoID, modalidadeID)
	require.NoError(t, err)
}

func TestChamadaReplaceSemantics(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, prof)
	aluno1 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	aluno2 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	seedInscricaoAtiva(t, h.DB, aluno1, mod)
	seedInscricaoAtiva(t, h.DB, aluno2, mod)

	caller := auth.Identity{UserID: prof, Role: models.Professor}
	const dia = "2026-08-10"

	req := ChamadaRequest{
		ModalidadeID: mod,
		DataAula:     dia,
		Entradas: []ChamadaEntry{
			{AlunoID: aluno1, Presente: true},
			{AlunoID: aluno2, Presente: false},
		},
	}
	res, err := svc.RecordChamada(ctx, caller, req)
	require.NoError(t, err)
	assert.Len(t, res.Registros, 2)

	// Resubmitting with changed marks replaces, never duplicates.
	req.Entradas[1].Presente = true
	res, err = svc.RecordChamada(ctx, caller, req)
	require.NoError(t, err)
	assert.Len(t, res.Registros, 2)

	saved, err := svc.GetChamada(ctx, caller, mod, dia)
	require.NoError(t, err)
	require.Len(t, saved.Registros, 2)
	for _, r := range saved.Registros {
		assert.True(t, r.Presente)
		assert.Equal(t, dia, r.DataAula)
		assert.Equal(t, prof, r.RegistradoPor)
	}

	// An empty entry list clears the date.
	req.Entradas = nil
	_, err = svc.RecordChamada(ctx, caller, req)
	require.NoError(t, err)
	saved, err = svc.GetChamada(ctx, caller, mod, dia)
	require.NoError(t, err)
	assert.Empty(t, saved.Registros)
}

func TestChamadaValidation(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	otherProf := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, prof)
	aluno := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	semInscricao := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	seedInscricaoAtiva(t, h.DB, aluno, mod)

	caller := auth.Identity{UserID: prof, Role: models.Professor}
	var api *APIError

	// Date format is strict.
	_, err = svc.RecordChamada(ctx, caller, ChamadaRequest{ModalidadeID: mod, DataAula: "10/08/2026"})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	// Every entry must hold an ativo enrollment.
	_, err = svc.RecordChamada(ctx, caller, ChamadaRequest{
		ModalidadeID: mod,
		DataAula:     "2026-08-10",
		Entradas:     []ChamadaEntry{{AlunoID: semInscricao, Presente: true}},
	})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	// Duplicated aluno in one submission is rejected.
	_, err = svc.RecordChamada(ctx, caller, ChamadaRequest{
		ModalidadeID: mod,
		DataAula:     "2026-08-10",
		Entradas: []ChamadaEntry{
			{AlunoID: aluno, Presente: true},
			{AlunoID: aluno, Presente: false},
		},
	})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	// A failed submission leaves nothing behind.
	saved, err := svc.GetChamada(ctx, caller, mod, "2026-08-10")
	require.NoError(t, err)
	assert.Empty(t, saved.Registros)

	// Another professor cannot record for this modalidade.
	_, err = svc.RecordChamada(ctx, auth.Identity{UserID: otherProf, Role: models.Professor}, ChamadaRequest{
		ModalidadeID: mod,
		DataAula:     "2026-08-10",
		Entradas:     []ChamadaEntry{{AlunoID: aluno, Presente: true}},
	})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)
}

func TestListScopesByRole(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, prof)
	aluno1 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	aluno2 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	seedInscricaoAtiva(t, h.DB, aluno1, mod)
	seedInscricaoAtiva(t, h.DB, aluno2, mod)

	caller := auth.Identity{UserID: prof, Role: models.Professor}
	_, err = svc.RecordChamada(ctx, caller, ChamadaRequest{
		ModalidadeID: mod,
		DataAula:     "2026-08-11",
		Entradas: []ChamadaEntry{
			{AlunoID: aluno1, Presente: true},
			{AlunoID: aluno2, Presente: false},
		},
	})
	require.NoError(t, err)

	// An aluno only sees their own records, whatever filters they pass.
	otherID := aluno2
	items, total, err := svc.List(ctx, auth.Identity{UserID: aluno1, Role: models.Aluno},
		ListQuery{AlunoID: &otherID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, aluno1, items[0].AlunoID)

	// The owning professor sees both, with date filters applied.
	de := "2026-08-01"
	ate := "2026-08-31"
	_, total, err = svc.List(ctx, caller, ListQuery{De: &de, Ate: &ate})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
