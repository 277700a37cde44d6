package inscricoes

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

type CreateInscricaoRequest struct {
	ModalidadeID string  `json:"modalidade_id" binding:"required"`
	Observacoes  *string `json:"observacoes,omitempty"`
}

type InscricaoResponse struct {
	ID            string     `json:"id"`
	AlunoID       string     `json:"aluno_id"`
	ModalidadeID  string     `json:"modalidade_id"`
	Status        string     `json:"status"`
	DataInscricao time.Time  `json:"data_inscricao"`
	DataAprovacao *time.Time `json:"data_aprovacao,omitempty"`
	Observacoes   *string    `json:"observacoes,omitempty"`
}

type InscricaoDetalheResponse struct {
	InscricaoResponse
	NomeModalidade    string `json:"nome_modalidade"`
	LabelModalidade   string `json:"label_modalidade"`
	UnidadeModalidade string `json:"unidade_modalidade"`
	NomeAluno         string `json:"nome_aluno"`
}

type ListQuery struct {
	ModalidadeID *string
	Status       *string
	Limit        int
	Offset       int
}
