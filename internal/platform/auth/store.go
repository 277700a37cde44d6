package auth

import (
	"context"
	"database/sql"
	"errors"

	"instituto-backend/internal/models"
)

// Account is the slice of a profile the auth flow needs.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	NomeCompleto string
	Role         models.Role
	Unidade      models.Unidade
}

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account, telefone string) error
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) AccountStore {
	return &Store{db: db}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const q = `
SELECT id, email, password_hash, nome_completo, role, unidade
FROM profiles
WHERE email = ?
LIMIT 1
`
	var a Account
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.NomeCompleto,
		&a.Role,
		&a.Unidade,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account, telefone string) error {
	const q = `
INSERT INTO profiles (id, email, password_hash, nome_completo, role, unidade, telefone)
VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''))
`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.Email, a.PasswordHash, a.NomeCompleto, string(a.Role), string(a.Unidade), telefone)
	return err
}
