package profiles

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type DBTX interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row
}

type Store struct{ db DBTX }

func NewStore(db DBTX) *Store { return &Store{db: db} }

const selectColumns = `
	id, email, nome_completo, role, unidade, telefone, endereco,
	DATE_FORMAT(data_nascimento, '%Y-%m-%d') AS data_nascimento,
	responsavel_nome, responsavel_telefone, created_at, updated_at`

func scanProfile(scan func(dest ...any) error) (Profile, error) {
	var r profileRow
	err := scan(&r.ID, &r.Email, &r.NomeCompleto, &r.Role, &r.Unidade, &r.Telefone,
		&r.Endereco, &r.DataNascimento, &r.ResponsavelNome, &r.ResponsavelTelefone,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Profile{}, err
	}
	return r.toModel(), nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM profiles WHERE id = ? LIMIT 1`, id)
	p, err := scanProfile(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE email = ? LIMIT 1`, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List applies dynamic WHERE + LIMIT/OFFSET and returns the filtered total.
func (s *Store) List(ctx context.Context, q ListQuery) ([]Profile, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(`SELECT ` + selectColumns + ` FROM profiles`)
	if q.Role != nil && *q.Role != "" {
		wheres = append(wheres, "role = ?")
		args = append(args, *q.Role)
	}
	if q.Unidade != nil && *q.Unidade != "" {
		wheres = append(wheres, "unidade = ?")
		args = append(args, *q.Unidade)
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	buf.WriteString(" ORDER BY nome_completo ASC, id ASC")

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

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM profiles")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Insert(ctx context.Context, p *Profile, passwordHash string) error {
	const q = `
	INSERT INTO profiles
		(id, email, password_hash, nome_completo, role, unidade, telefone,
		 endereco, data_nascimento, responsavel_nome, responsavel_telefone)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.Email, passwordHash, p.NomeCompleto, string(p.Role), string(p.Unidade),
		p.Telefone, p.Endereco, p.DataNascimento, p.ResponsavelNome, p.ResponsavelTelefone)
	return err
}

// Update writes only the provided fields. Returns the number of matched rows.
func (s *Store) Update(ctx context.Context, id string, in AdminUpdateProfileRequest) (int64, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if in.NomeCompleto != nil {
		add("nome_completo", *in.NomeCompleto)
	}
	if in.Telefone != nil {
		add("telefone", *in.Telefone)
	}
	if in.Endereco != nil {
		add("endereco", *in.Endereco)
	}
	if in.DataNascimento != nil {
		if *in.DataNascimento == "" {
			sets = append(sets, "data_nascimento = NULL")
		} else {
			add("data_nascimento", *in.DataNascimento)
		}
	}
	if in.ResponsavelNome != nil {
		add("responsavel_nome", *in.ResponsavelNome)
	}
	if in.ResponsavelTelefone != nil {
		add("responsavel_telefone", *in.ResponsavelTelefone)
	}
	if in.Unidade != nil {
		add("unidade", *in.Unidade)
	}
	if in.Role != nil {
		add("role", *in.Role)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	q := "UPDATE profiles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
