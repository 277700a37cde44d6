package modalidades

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"instituto-backend/internal/models"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const selectColumns = `
	id, nome, descricao, unidade, professor_id, vagas_maximas, vagas_ocupadas,
	horario_inicio, horario_fim, dias_semana, ativo, created_at, updated_at`

func scanModalidade(scan func(dest ...any) error) (Modalidade, error) {
	var r modalidadeRow
	err := scan(&r.ID, &r.Nome, &r.Descricao, &r.Unidade, &r.ProfessorID,
		&r.VagasMaximas, &r.VagasOcupadas, &r.HorarioInicio, &r.HorarioFim,
		&r.DiasSemana, &r.Ativo, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Modalidade{}, err
	}
	return r.toModel(), nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Modalidade, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM modalidades WHERE id = ? LIMIT 1`, id)
	m, err := scanModalidade(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) List(ctx context.Context, q ListQuery) ([]Modalidade, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`SELECT ` + selectColumns + ` FROM modalidades`)
	if q.Unidade != nil && *q.Unidade != "" {
		wheres = append(wheres, "unidade = ?")
		args = append(args, *q.Unidade)
	}
	if q.ProfessorID != nil && *q.ProfessorID != "" {
		wheres = append(wheres, "professor_id = ?")
		args = append(args, *q.ProfessorID)
	}
	if q.Ativo != nil {
		wheres = append(wheres, "ativo = ?")
		args = append(args, *q.Ativo)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY nome ASC, id ASC")

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

	var out []Modalidade
	for rows.Next() {
		m, err := scanModalidade(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM modalidades")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Insert(ctx context.Context, m *Modalidade) error {
	const q = `
	INSERT INTO modalidades
		(id, nome, descricao, unidade, professor_id, vagas_maximas, vagas_ocupadas,
		 horario_inicio, horario_fim, dias_semana, ativo)
	VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, NULLIF(?, ''), ?)`
	_, err := s.db.ExecContext(ctx, q,
		m.ID, string(m.Nome), m.Descricao, string(m.Unidade), m.ProfessorID,
		m.VagasMaximas, m.HorarioInicio, m.HorarioFim,
		models.JoinDiasSemana(m.DiasSemana), m.Ativo)
	return err
}

func (s *Store) Update(ctx context.Context, id string, in UpdateModalidadeRequest) (int64, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if in.Nome != nil {
		add("nome", *in.Nome)
	}
	if in.Descricao != nil {
		add("descricao", *in.Descricao)
	}
	if in.Unidade != nil {
		add("unidade", *in.Unidade)
	}
	if in.ProfessorID != nil {
		if *in.ProfessorID == "" {
			sets = append(sets, "professor_id = NULL")
		} else {
			add("professor_id", *in.ProfessorID)
		}
	}
	if in.VagasMaximas != nil {
		add("vagas_maximas", *in.VagasMaximas)
	}
	if in.HorarioInicio != nil {
		add("horario_inicio", *in.HorarioInicio)
	}
	if in.HorarioFim != nil {
		add("horario_fim", *in.HorarioFim)
	}
	if in.DiasSemana != nil {
		dias := make([]models.DiaSemana, 0, len(*in.DiasSemana))
		for _, d := range *in.DiasSemana {
			dias = append(dias, models.DiaSemana(d))
		}
		add("dias_semana", models.JoinDiasSemana(dias))
	}
	if in.Ativo != nil {
		add("ativo", *in.Ativo)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	q := "UPDATE modalidades SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetProfileRole resolves the role of the referenced profile.
func (s *Store) GetProfileRole(ctx context.Context, id string) (models.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `SELECT role FROM profiles WHERE id = ? LIMIT 1`, id).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return models.Role(role), nil
}

// GetProfileUnidade resolves the unit of the given profile.
func (s *Store) GetProfileUnidade(ctx context.Context, id string) (models.Unidade, error) {
	var unidade string
	err := s.db.QueryRowContext(ctx, `SELECT unidade FROM profiles WHERE id = ? LIMIT 1`, id).Scan(&unidade)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return models.Unidade(unidade), nil
}
