package relatorios

import (
	"context"
	"database/sql"
	"time"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

// freqRow is one aggregated (modalidade) frequency slice before the
// percentage is computed.
type freqRow struct {
	ModalidadeID string
	Nome         string
	Unidade      string
	Total        int
	Presentes    int
}

// AlunoName returns the nome_completo, or "" when the profile is missing.
func (s *Store) AlunoName(ctx context.Context, id string, role models.Role) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT nome_completo FROM profiles WHERE id = ? AND role = ? LIMIT 1`,
		id, string(role)).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return name, err
}

// AlunoOfProfessor reports whether the aluno holds any enrollment in a
// modalidade owned by the professor.
func (s *Store) AlunoOfProfessor(ctx context.Context, alunoID, professorID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1
	FROM inscricoes i
	JOIN modalidades m ON m.id = i.modalidade_id
	WHERE i.aluno_id = ? AND m.professor_id = ?
	LIMIT 1`, alunoID, professorID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AlunoFrequencia aggregates the aluno's full attendance history grouped by
// modalidade.
func (s *Store) AlunoFrequencia(ctx context.Context, alunoID string) ([]freqRow, error) {
	const q = `
	SELECT m.id, m.nome, m.unidade, COUNT(*), COALESCE(SUM(pr.presente), 0)
	FROM presencas pr
	JOIN modalidades m ON m.id = pr.modalidade_id
	WHERE pr.aluno_id = ?
	GROUP BY m.id, m.nome, m.unidade
	ORDER BY m.nome`
	rows, err := s.db.QueryContext(ctx, q, alunoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFreq(rows)
}

// ModalidadesFrequencia aggregates attendance per modalidade since the given
// date. Active modalidades with no records in the window still appear, with
// zero totals.
func (s *Store) ModalidadesFrequencia(ctx context.Context, since time.Time, unidade *models.Unidade, professorID *string) ([]freqRow, error) {
	q := `
	SELECT m.id, m.nome, m.unidade,
	       COALESCE(COUNT(pr.id), 0), COALESCE(SUM(pr.presente), 0)
	FROM modalidades m
	LEFT JOIN presencas pr ON pr.modalidade_id = m.id AND pr.data_aula >= ?
	WHERE m.ativo = 1`
	args := []any{since.Format("2006-01-02")}
	if unidade != nil {
		q += " AND m.unidade = ?"
		args = append(args, string(*unidade))
	}
	if professorID != nil {
		q += " AND m.professor_id = ?"
		args = append(args, *professorID)
	}
	q += `
	GROUP BY m.id, m.nome, m.unidade
	ORDER BY m.unidade, m.nome`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFreq(rows)
}

// Dashboard gathers the admin landing-page counts. The queries run inside a
// read-only transaction so the counters describe one snapshot.
func (s *Store) Dashboard(ctx context.Context) (DashboardResponse, error) {
	out := DashboardResponse{
		AlunosPorUnidade:  make(map[string]int64),
		InscricoesPorNome: make(map[string]int64),
	}

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		counts := []struct {
			query string
			dest  *int64
		}{
			{`SELECT COUNT(*) FROM profiles WHERE role = 'aluno'`, &out.TotalAlunos},
			{`SELECT COUNT(*) FROM profiles WHERE role = 'professor'`, &out.TotalProfessores},
			{`SELECT COUNT(*) FROM modalidades WHERE ativo = 1`, &out.ModalidadesAtivas},
			{`SELECT COUNT(*) FROM inscricoes WHERE status = 'ativo'`, &out.InscricoesAtivas},
		}
		for _, c := range counts {
			if err := tx.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
				return err
			}
		}

		if err := groupCount(ctx, tx,
			`SELECT unidade, COUNT(*) FROM profiles WHERE role = 'aluno' GROUP BY unidade`,
			out.AlunosPorUnidade); err != nil {
			return err
		}
		return groupCount(ctx, tx, `
		SELECT m.nome, COUNT(*)
		FROM inscricoes i
		JOIN modalidades m ON m.id = i.modalidade_id
		WHERE i.status = 'ativo'
		GROUP BY m.nome`, out.InscricoesPorNome)
	})
	return out, err
}

func groupCount(ctx context.Context, tx db.DBTX, query string, dest map[string]int64) error {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			return err
		}
		dest[k] = n
	}
	return rows.Err()
}

func collectFreq(rows *sql.Rows) ([]freqRow, error) {
	var out []freqRow
	for rows.Next() {
		var r freqRow
		if err := rows.Scan(&r.ModalidadeID, &r.Nome, &r.Unidade, &r.Total, &r.Presentes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
