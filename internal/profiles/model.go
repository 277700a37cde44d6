package profiles

import (
	"time"

	"instituto-backend/internal/models"
)

// DB row shape (scan target).
type profileRow struct {
	ID                  string
	Email               string
	NomeCompleto        string
	Role                string
	Unidade             string
	Telefone            *string
	Endereco            *string
	DataNascimento      *string // DATE -> "YYYY-MM-DD"
	ResponsavelNome     *string
	ResponsavelTelefone *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile is the model shared between Service and Store.
type Profile struct {
	ID                  string
	Email               string
	NomeCompleto        string
	Role                models.Role
	Unidade             models.Unidade
	Telefone            *string
	Endereco            *string
	DataNascimento      *string
	ResponsavelNome     *string
	ResponsavelTelefone *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (r profileRow) toModel() Profile {
	return Profile{
		ID:                  r.ID,
		Email:               r.Email,
		NomeCompleto:        r.NomeCompleto,
		Role:                models.Role(r.Role),
		Unidade:             models.Unidade(r.Unidade),
		Telefone:            r.Telefone,
		Endereco:            r.Endereco,
		DataNascimento:      r.DataNascimento,
		ResponsavelNome:     r.ResponsavelNome,
		ResponsavelTelefone: r.ResponsavelTelefone,
		CreatedAt:           r.CreatedAt.UTC(),
		UpdatedAt:           r.UpdatedAt.UTC(),
	}
}

func (p Profile) toDTO() ProfileResponse {
	return ProfileResponse{
		ID:                  p.ID,
		Email:               p.Email,
		NomeCompleto:        p.NomeCompleto,
		Role:                string(p.Role),
		Unidade:             string(p.Unidade),
		Telefone:            p.Telefone,
		Endereco:            p.Endereco,
		DataNascimento:      p.DataNascimento,
		ResponsavelNome:     p.ResponsavelNome,
		ResponsavelTelefone: p.ResponsavelTelefone,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}
