package inscricoes

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

const selectColumns = `
	i.id, i.aluno_id, i.modalidade_id, i.status, i.data_inscricao, i.data_aprovacao, i.observacoes`

func scanInscricao(scan func(dest ...any) error) (Inscricao, error) {
	var r inscricaoRow
	err := scan(&r.ID, &r.AlunoID, &r.ModalidadeID, &r.Status,
		&r.DataInscricao, &r.DataAprovacao, &r.Observacoes)
	if err != nil {
		return Inscricao{}, err
	}
	return r.toModel(), nil
}

// ===== transactional pieces =====

// GetModalidadeTx reads the modalidade slice the engine checks against.
func GetModalidadeTx(ctx context.Context, tx db.DBTX, id string) (*modalidadeInfo, error) {
	const q = `
	SELECT id, nome, unidade, professor_id, vagas_maximas, vagas_ocupadas, ativo
	FROM modalidades WHERE id = ? LIMIT 1`
	var m modalidadeInfo
	var nome, unidade string
	err := tx.QueryRowContext(ctx, q, id).Scan(&m.ID, &nome, &unidade,
		&m.ProfessorID, &m.VagasMaximas, &m.VagasOcupadas, &m.Ativo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Nome = models.Atividade(nome)
	m.Unidade = models.Unidade(unidade)
	return &m, nil
}

// HasInscricaoTx reports whether the aluno already holds any enrollment for
// the modalidade, regardless of status.
func HasInscricaoTx(ctx context.Context, tx db.DBTX, alunoID, modalidadeID string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `
	SELECT 1 FROM inscricoes WHERE aluno_id = ? AND modalidade_id = ? LIMIT 1`,
		alunoID, modalidadeID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TakeSeatTx performs the guarded seat increment. It returns false, without
// touching the counter, when the modalidade is full. The capacity check and
// the increment are a single statement, so concurrent callers can never push
// vagas_ocupadas past vagas_maximas.
func TakeSeatTx(ctx context.Context, tx db.DBTX, modalidadeID string) (bool, error) {
	res, err := tx.ExecContext(ctx, `
	UPDATE modalidades
	SET vagas_ocupadas = vagas_ocupadas + 1
	WHERE id = ? AND vagas_ocupadas < vagas_maximas`, modalidadeID)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return aff == 1, nil
}

// InsertTx writes the enrollment row with its resolved status.
func InsertTx(ctx context.Context, tx db.DBTX, i *Inscricao) error {
	const q = `
	INSERT INTO inscricoes (id, aluno_id, modalidade_id, status, data_inscricao, data_aprovacao, observacoes)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, i.ID, i.AlunoID, i.ModalidadeID,
		string(i.Status), i.DataInscricao, i.DataAprovacao, i.Observacoes)
	return err
}

// GetByIDForUpdateTx locks the enrollment row for the approval transaction.
func GetByIDForUpdateTx(ctx context.Context, tx db.DBTX, id string) (*Inscricao, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM inscricoes i WHERE i.id = ? LIMIT 1 FOR UPDATE`, id)
	i, err := scanInscricao(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// ApproveTx moves a waitlisted enrollment to ativo.
func ApproveTx(ctx context.Context, tx db.DBTX, id string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `
	UPDATE inscricoes SET status = ?, data_aprovacao = ? WHERE id = ?`,
		string(models.StatusAtivo), now, id)
	return err
}

// ===== plain store methods =====

func (s *Store) GetProfile(ctx context.Context, id string) (models.Role, models.Unidade, error) {
	var role, unidade string
	err := s.db.QueryRowContext(ctx, `SELECT role, unidade FROM profiles WHERE id = ? LIMIT 1`, id).
		Scan(&role, &unidade)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return models.Role(role), models.Unidade(unidade), nil
}

// ListByAluno returns the aluno's enrollments joined with the modalidade.
func (s *Store) ListByAluno(ctx context.Context, alunoID string) ([]listedInscricao, error) {
	const q = `
	SELECT ` + selectColumns + `, m.nome, m.unidade, p.nome_completo
	FROM inscricoes i
	JOIN modalidades m ON m.id = i.modalidade_id
	JOIN profiles p ON p.id = i.aluno_id
	WHERE i.aluno_id = ?
	ORDER BY i.data_inscricao DESC`
	rows, err := s.db.QueryContext(ctx, q, alunoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListed(rows)
}

// List returns enrollments for the professor/admin views. When professorID is
// set the result is limited to modalidades owned by that professor.
func (s *Store) List(ctx context.Context, q ListQuery, professorID *string) ([]listedInscricao, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`
	SELECT ` + selectColumns + `, m.nome, m.unidade, p.nome_completo
	FROM inscricoes i
	JOIN modalidades m ON m.id = i.modalidade_id
	JOIN profiles p ON p.id = i.aluno_id`)

	if q.ModalidadeID != nil && *q.ModalidadeID != "" {
		wheres = append(wheres, "i.modalidade_id = ?")
		args = append(args, *q.ModalidadeID)
	}
	if q.Status != nil && *q.Status != "" {
		wheres = append(wheres, "i.status = ?")
		args = append(args, *q.Status)
	}
	if professorID != nil {
		wheres = append(wheres, "m.professor_id = ?")
		args = append(args, *professorID)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	// Waitlists read in arrival order, everything else newest approval first.
	if q.Status != nil && *q.Status == string(models.StatusFilaEspera) {
		buf.WriteString(" ORDER BY i.data_inscricao ASC, i.id ASC")
	} else {
		buf.WriteString(" ORDER BY i.data_aprovacao DESC, i.data_inscricao DESC, i.id DESC")
	}

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

	out, err := collectListed(rows)
	if err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString(`
	SELECT COUNT(*)
	FROM inscricoes i
	JOIN modalidades m ON m.id = i.modalidade_id
	JOIN profiles p ON p.id = i.aluno_id`)
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectListed(rows *sql.Rows) ([]listedInscricao, error) {
	var out []listedInscricao
	for rows.Next() {
		var r inscricaoRow
		var nome, unidade, nomeAluno string
		err := rows.Scan(&r.ID, &r.AlunoID, &r.ModalidadeID, &r.Status,
			&r.DataInscricao, &r.DataAprovacao, &r.Observacoes,
			&nome, &unidade, &nomeAluno)
		if err != nil {
			return nil, err
		}
		out = append(out, listedInscricao{
			Inscricao:         r.toModel(),
			NomeModalidade:    models.Atividade(nome),
			UnidadeModalidade: models.Unidade(unidade),
			NomeAluno:         nomeAluno,
		})
	}
	return out, rows.Err()
}
