package profiles

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	DateLayout       = "2006-01-02"
)

type ProfileResponse struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	NomeCompleto        string    `json:"nome_completo"`
	Role                string    `json:"role"`
	Unidade             string    `json:"unidade"`
	Telefone            *string   `json:"telefone,omitempty"`
	Endereco            *string   `json:"endereco,omitempty"`
	DataNascimento      *string   `json:"data_nascimento,omitempty"` // YYYY-MM-DD
	ResponsavelNome     *string   `json:"responsavel_nome,omitempty"`
	ResponsavelTelefone *string   `json:"responsavel_telefone,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UpdateProfileRequest carries the owner-editable fields. Email and role are
// not part of it.
type UpdateProfileRequest struct {
	NomeCompleto        *string `json:"nome_completo,omitempty"`
	Telefone            *string `json:"telefone,omitempty"`
	Endereco            *string `json:"endereco,omitempty"`
	DataNascimento      *string `json:"data_nascimento,omitempty"` // YYYY-MM-DD
	ResponsavelNome     *string `json:"responsavel_nome,omitempty"`
	ResponsavelTelefone *string `json:"responsavel_telefone,omitempty"`
	Unidade             *string `json:"unidade,omitempty"`
}

// AdminUpdateProfileRequest additionally lets an administrator move a user
// between roles.
type AdminUpdateProfileRequest struct {
	UpdateProfileRequest
	Role *string `json:"role,omitempty"`
}

type CreateProfileRequest struct {
	Email               string  `json:"email" binding:"required"`
	Password            string  `json:"password" binding:"required"`
	NomeCompleto        string  `json:"nome_completo" binding:"required"`
	Role                string  `json:"role" binding:"required"`
	Unidade             string  `json:"unidade" binding:"required"`
	Telefone            *string `json:"telefone,omitempty"`
	Endereco            *string `json:"endereco,omitempty"`
	DataNascimento      *string `json:"data_nascimento,omitempty"`
	ResponsavelNome     *string `json:"responsavel_nome,omitempty"`
	ResponsavelTelefone *string `json:"responsavel_telefone,omitempty"`
}

type ListQuery struct {
	Role    *string
	Unidade *string
	Limit   int
	Offset  int
}
