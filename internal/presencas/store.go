package presencas

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

// modalidadeOwner is what the permission check needs.
type modalidadeOwner struct {
	ID          string
	ProfessorID *string
}

func (s *Store) GetModalidadeOwner(ctx context.Context, id string) (*modalidadeOwner, error) {
	var m modalidadeOwner
	err := s.db.QueryRowContext(ctx, `SELECT id, professor_id FROM modalidades WHERE id = ? LIMIT 1`, id).
		Scan(&m.ID, &m.ProfessorID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ActiveAlunosTx returns the ids of alunos with an ativo enrollment in the
// modalidade. The chamada validates its entries against this set.
func ActiveAlunosTx(ctx context.Context, tx db.DBTX, modalidadeID string) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `
	SELECT aluno_id FROM inscricoes WHERE modalidade_id = ? AND status = ?`,
		modalidadeID, string(models.StatusAtivo))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}

// ClearDateTx deletes every record for the (modalidade, date) pair.
func ClearDateTx(ctx context.Context, tx db.DBTX, modalidadeID string, dataAula time.Time) error {
	_, err := tx.ExecContext(ctx, `
	DELETE FROM presencas WHERE modalidade_id = ? AND data_aula = ?`,
		modalidadeID, dataAula.Format(dateLayout))
	return err
}

// InsertTx writes one attendance record.
func InsertTx(ctx context.Context, tx db.DBTX, p *Presenca) error {
	const q = `
	INSERT INTO presencas (id, aluno_id, modalidade_id, data_aula, presente, observacoes, registrado_por)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, p.ID, p.AlunoID, p.ModalidadeID,
		p.DataAula.Format(dateLayout), p.Presente, p.Observacoes, p.RegistradoPor)
	return err
}

// GetChamada reads the saved roll call for one date, oldest aluno join first.
func (s *Store) GetChamada(ctx context.Context, modalidadeID string, dataAula time.Time) ([]Presenca, error) {
	const q = `
	SELECT id, aluno_id, modalidade_id, data_aula, presente, observacoes, registrado_por
	FROM presencas
	WHERE modalidade_id = ? AND data_aula = ?
	ORDER BY aluno_id`
	rows, err := s.db.QueryContext(ctx, q, modalidadeID, dataAula.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Presenca
	for rows.Next() {
		var r presencaRow
		err := rows.Scan(&r.ID, &r.AlunoID, &r.ModalidadeID, &r.DataAula,
			&r.Presente, &r.Observacoes, &r.RegistradoPor)
		if err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

// List applies the optional filters and returns a page plus the total count.
func (s *Store) List(ctx context.Context, q ListQuery, professorID *string) ([]listedPresenca, int64, error) {
	var (
		args   []any
		wheres []string
	)

	if q.ModalidadeID != nil && *q.ModalidadeID != "" {
		wheres = append(wheres, "pr.modalidade_id = ?")
		args = append(args, *q.ModalidadeID)
	}
	if q.AlunoID != nil && *q.AlunoID != "" {
		wheres = append(wheres, "pr.aluno_id = ?")
		args = append(args, *q.AlunoID)
	}
	if q.De != nil && *q.De != "" {
		wheres = append(wheres, "pr.data_aula >= ?")
		args = append(args, *q.De)
	}
	if q.Ate != nil && *q.Ate != "" {
		wheres = append(wheres, "pr.data_aula <= ?")
		args = append(args, *q.Ate)
	}
	if professorID != nil {
		wheres = append(wheres, "m.professor_id = ?")
		args = append(args, *professorID)
	}

	var buf bytes.Buffer
	buf.WriteString(`
	SELECT pr.id, pr.aluno_id, pr.modalidade_id, pr.data_aula, pr.presente,
	       pr.observacoes, pr.registrado_por, p.nome_completo, m.nome
	FROM presencas pr
	JOIN profiles p ON p.id = pr.aluno_id
	JOIN modalidades m ON m.id = pr.modalidade_id`)
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY pr.data_aula DESC, pr.aluno_id ASC")

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, q.Offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []listedPresenca
	for rows.Next() {
		var r presencaRow
		var nomeAluno, nomeModalidade string
		err := rows.Scan(&r.ID, &r.AlunoID, &r.ModalidadeID, &r.DataAula,
			&r.Presente, &r.Observacoes, &r.RegistradoPor, &nomeAluno, &nomeModalidade)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, listedPresenca{
			Presenca:       r.toModel(),
			NomeAluno:      nomeAluno,
			NomeModalidade: models.Atividade(nomeModalidade).Label(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString(`
	SELECT COUNT(*)
	FROM presencas pr
	JOIN profiles p ON p.id = pr.aluno_id
	JOIN modalidades m ON m.id = pr.modalidade_id`)
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
