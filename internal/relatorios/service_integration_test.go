//go:build testutil
// +build testutil

package relatorios

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

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

func seedModalidade(t *testing.T, db *sql.DB, nome models.Atividade, unidade models.Unidade, professorID string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(`
	INSERT INTO modalidades (id, nome, unidade, professor_id, vagas_maximas, ativo)
	VALUES (?, ?, ?, ?, 30, 1)`, id, string(nome), string(unidade), professorID)
	require.NoError(t, err)
	return id
}

func seedPresenca(t *testing.T, db *sql.DB, alunoID, modalidadeID, registradoPor string, daysAgo int, presente bool) {
	t.Helper()
	dia := time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	_, err := db.Exec(`
	INSERT INTO presencas (id, aluno_id, modalidade_id, data_aula, presente, registrado_por)
	VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), alunoID, modalidadeID, dia, presente, registradoPor)
	require.NoError(t, err)
}

func TestFrequenciaAluno(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, models.KungFu, models.CarmemCristina, prof)
	aluno := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	_, err = h.DB.Exec(`INSERT INTO inscricoes (id, aluno_id, modalidade_id, status) VALUES (?, ?, ?, 'ativo')`,
		uuid.NewString(), aluno, mod)
	require.NoError(t, err)

	// Two of three classes attended, including one far outside any window;
	// the per-aluno report covers the whole history.
	seedPresenca(t, h.DB, aluno, mod, prof, 1, true)
	seedPresenca(t, h.DB, aluno, mod, prof, 2, true)
	seedPresenca(t, h.DB, aluno, mod, prof, 90, false)

	res, err := svc.FrequenciaAluno(ctx, auth.Identity{UserID: aluno, Role: models.Aluno}, aluno)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalAulas)
	assert.Equal(t, 2, res.TotalPresencas)
	assert.Equal(t, 67, res.PercentualGeral)
	assert.Equal(t, "warning", res.Classificacao)
	require.Len(t, res.Modalidades, 1)
	assert.Equal(t, "Kung Fu", res.Modalidades[0].NomeModalidade)

	// Another aluno cannot read this report.
	intruso := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	var api *APIError
	_, err = svc.FrequenciaAluno(ctx, auth.Identity{UserID: intruso, Role: models.Aluno}, aluno)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)

	// The owning professor can.
	_, err = svc.FrequenciaAluno(ctx, auth.Identity{UserID: prof, Role: models.Professor}, aluno)
	require.NoError(t, err)

	// A professor without the aluno in any of their modalidades cannot.
	outro := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	_, err = svc.FrequenciaAluno(ctx, auth.Identity{UserID: outro, Role: models.Professor}, aluno)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)
}

func TestFrequenciaModalidadesWindow(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.SaoClemente)
	mod := seedModalidade(t, h.DB, models.Volei, models.SaoClemente, prof)
	aluno := seedProfile(t, h.DB, models.Aluno, models.SaoClemente)

	// Inside the window: 1 of 2 present. Outside: an absence that must not count.
	seedPresenca(t, h.DB, aluno, mod, prof, 5, true)
	seedPresenca(t, h.DB, aluno, mod, prof, 10, false)
	seedPresenca(t, h.DB, aluno, mod, prof, 45, false)

	res, err := svc.FrequenciaModalidades(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, ReportWindowDays, res.JanelaDias)
	require.Len(t, res.Modalidades, 1)
	assert.Equal(t, 2, res.Modalidades[0].TotalAulas)
	assert.Equal(t, 1, res.Modalidades[0].Presencas)
	assert.Equal(t, 50, res.Modalidades[0].Percentual)
	assert.Equal(t, "critical", res.Modalidades[0].Classificacao)

	// Unit filter: another unit reads empty.
	res, err = svc.FrequenciaModalidades(ctx, string(models.NawampityUganda))
	require.NoError(t, err)
	assert.Empty(t, res.Modalidades)

	// Unknown unit is invalid.
	var api *APIError
	_, err = svc.FrequenciaModalidades(ctx, "centro")
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInvalidArgument, api.Code)
}

func TestFrequenciaProfessorRollup(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.JardimPaulista)
	modA := seedModalidade(t, h.DB, models.Jazz, models.JardimPaulista, prof)
	modB := seedModalidade(t, h.DB, models.Zumba, models.JardimPaulista, prof)
	aluno := seedProfile(t, h.DB, models.Aluno, models.JardimPaulista)

	seedPresenca(t, h.DB, aluno, modA, prof, 1, true)
	seedPresenca(t, h.DB, aluno, modA, prof, 2, true)
	seedPresenca(t, h.DB, aluno, modB, prof, 1, false)

	res, err := svc.FrequenciaProfessor(ctx, auth.Identity{UserID: prof, Role: models.Professor}, prof)
	require.NoError(t, err)
	assert.Len(t, res.Modalidades, 2)
	assert.Equal(t, 67, res.PercentualGeral)

	// Another professor cannot read it.
	outro := seedProfile(t, h.DB, models.Professor, models.JardimPaulista)
	var api *APIError
	_, err = svc.FrequenciaProfessor(ctx, auth.Identity{UserID: outro, Role: models.Professor}, prof)
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodePermissionDenied, api.Code)
}

func TestDashboardCounts(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, models.Capoeira, models.CarmemCristina, prof)
	a1 := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	a2 := seedProfile(t, h.DB, models.Aluno, models.SaoClemente)
	_, err = h.DB.Exec(`INSERT INTO inscricoes (id, aluno_id, modalidade_id, status) VALUES (?, ?, ?, 'ativo')`,
		uuid.NewString(), a1, mod)
	require.NoError(t, err)
	_, err = h.DB.Exec(`INSERT INTO inscricoes (id, aluno_id, modalidade_id, status) VALUES (?, ?, ?, 'fila_espera')`,
		uuid.NewString(), a2, mod)
	require.NoError(t, err)

	res, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.TotalAlunos)
	assert.EqualValues(t, 1, res.TotalProfessores)
	assert.EqualValues(t, 1, res.ModalidadesAtivas)
	assert.EqualValues(t, 1, res.InscricoesAtivas)
	assert.EqualValues(t, 1, res.AlunosPorUnidade[string(models.CarmemCristina)])
	assert.EqualValues(t, 1, res.AlunosPorUnidade[string(models.SaoClemente)])
	assert.EqualValues(t, 1, res.InscricoesPorNome[string(models.Capoeira)])
}

func TestExportFrequenciaModalidades(t *testing.T) {
	h, err := testdb.Start(context.Background())
	require.NoError(t, err)
	defer h.Close()

	ctx := context.Background()
	svc := NewService(h.DB)

	prof := seedProfile(t, h.DB, models.Professor, models.CarmemCristina)
	mod := seedModalidade(t, h.DB, models.Bateria, models.CarmemCristina, prof)
	aluno := seedProfile(t, h.DB, models.Aluno, models.CarmemCristina)
	seedPresenca(t, h.DB, aluno, mod, prof, 3, true)

	data, name, err := svc.ExportFrequenciaModalidades(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, name, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Frequencia")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Modalidade", rows[0][0])
	assert.Equal(t, "Bateria", rows[1][0])
	assert.Equal(t, "100", rows[1][4])
	assert.Equal(t, "good", rows[1][5])
}
