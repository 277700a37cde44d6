//go:build testutil
// +build testutil

package inscricoes

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

func seedModalidade(t *testing.T, db *sql.DB, unidade models.Unidade, professorID string, vagas int, ativo bool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
	INSERT INTO modalidades (id, nome, unidade, professor_id, vagas_maximas, ativo)
	VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(models.Capoeira), string(unidade), professorID, vagas, ativo)
	require.NoError(t, err)
	return id
}

func vagasOcupadas(t *testing.T, db *sql.DB, modalidadeID string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(
		`SELECT vagas_ocupadas FROM modalidades WHERE id = ?`, modalidadeID).Scan(&n))
	return n
}

func alunoIdentity(id string) auth.Identity {
	return auth.Identity{UserID: id, Role: models.Aluno}
}

func TestEnrollmentLifecycle(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, models.CarmemCristina, prof, 1, true)
	aluno1 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	aluno2 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)

	// First aluno takes the only seat.
	res1, err := svc.Create(ctx, alunoIdentity(aluno1), CreateInscricaoRequest{ModalidadeID: mod})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusAtivo), res1.Status)
	assert.NotNil(t, res1.DataAprovacao)
	assert.Equal(t, 1, vagasOcupadas(t, h.DB, mod))

	// Second aluno lands on the waitlist, counter untouched.
	res2, err := svc.Create(ctx, alunoIdentity(aluno2), CreateInscricaoRequest{ModalidadeID: mod})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusFilaEspera), res2.Status)
	assert.Nil(t, res2.DataAprovacao)
	assert.Equal(t, 1, vagasOcupadas(t, h.DB, mod))

	// Approving while full is a conflict and changes nothing.
	staff := auth.Identity{UserID: prof, Role: models.Professor}
	_, err = svc.Approve(ctx, staff, res2.ID)
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeConflict, api.Code)
	assert.Equal(t, 1, vagasOcupadas(t, h.DB, mod))

	// Rejecting the active enrollment frees the row but not the seat counter,
	// and a second rejection is NOT_FOUND.
	require.NoError(t, svc.Reject(ctx, staff, res1.ID))
	err = svc.Reject(ctx, staff, res1.ID)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeNotFound, api.Code)

	// Free the seat directly, then the approval goes through.
	_, err = h.DB.Exec(`UPDATE modalidades SET vagas_ocupadas = 0 WHERE id = ?`, mod)
	require.NoError(t, err)
	approved, err := svc.Approve(ctx, staff, res2.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusAtivo), approved.Status)
	assert.NotNil(t, approved.DataAprovacao)
	assert.Equal(t, 1, vagasOcupadas(t, h.DB, mod))

	// Approving an already active enrollment is a conflict.
	_, err = svc.Approve(ctx, staff, res2.ID)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeConflict, api.Code)
}

func TestEnrollmentGuards(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.SaoClemente)
	mod := seedModalidade(t, h.DB, models.SaoClemente, prof, 5, true)
	inactive := seedModalidade(t, h.DB, models.SaoClemente, prof, 5, false)
	aluno := seedProfile(t, h.DB, models.Aluno, models.SaoClemente)
	forasteiro := seedProfile(t, h.DB, models.Aluno, models.JardimPaulista)

	var api *APIError

	// Only alunos may enroll.
	_, err = svc.Create(ctx, auth.Identity{UserID: prof, Role: models.Professor},
		CreateInscricaoRequest{ModalidadeID: mod})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)

	// Not into an inactive modalidade.
	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: inactive})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)

	// Not outside the aluno's own unit.
	_, err = svc.Create(ctx, alunoIdentity(forasteiro), CreateInscricaoRequest{ModalidadeID: mod})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)

	// Unknown modalidade.
	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: uuid.NewString()})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeNotFound, api.Code)

	// A second enrollment in the same modalidade is a conflict, waitlisted or not.
	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: mod})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: mod})
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeConflict, api.Code)
}

func TestApprovePermissions(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	owner := seedProfile(t, h.DB, models.Professor, models.NovaHortolandia)
	other := seedProfile(t, h.DB, models.Professor, models.NovaHortolandia)
	admin := seedProfile(t, h.DB, models.Admin, models.NovaHortolandia)
	mod := seedModalidade(t, h.DB, models.NovaHortolandia, owner, 0, true)
	aluno := seedProfile(t, h.DB, models.Aluno, models.NovaHortolandia)

	res, err := svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: mod})
	require.NoError(t, err)
	require.Equal(t, string(models.StatusFilaEspera), res.Status)

	// A professor who does not own the modalidade cannot approve.
	var api *APIError
	_, err = svc.Approve(ctx, auth.Identity{UserID: other, Role: models.Professor}, res.ID)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)

	// Admin can, once a seat exists.
	_, err = h.DB.Exec(`UPDATE modalidades SET vagas_maximas = 1 WHERE id = ?`, mod)
	require.NoError(t, err)
	approved, err := svc.Approve(ctx, auth.Identity{UserID: admin, Role: models.Admin}, res.ID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusAtivo), approved.Status)
}

func TestListScoping(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	profA := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	profB := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	modA := seedModalidade(t, h.DB, models.CarmemCristina, profA, 10, true)
	modB := seedModalidade(t, h.DB, models.CarmemCristina, profB, 10, true)
	aluno := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)

	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: modA})
	require.NoError(t, err)
	_, err = svc.Create(ctx, alunoIdentity(aluno), CreateInscricaoRequest{ModalidadeID: modB})
	require.NoError(t, err)

	// Professor A only sees enrollments of their own modalidade.
	items, total, err := svc.List(ctx, auth.Identity{UserID: profA, Role: models.Professor}, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, modA, items[0].ModalidadeID)

	// Admin sees both.
	_, total, err = svc.List(ctx, auth.Identity{UserID: "admin", Role: models.Admin}, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// The aluno sees their own two enrollments.
	mine, err := svc.ListMine(ctx, alunoIdentity(aluno))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
