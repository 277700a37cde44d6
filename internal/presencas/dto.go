package presencas

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// ChamadaEntry is one student's mark inside a roll call submission.
type ChamadaEntry struct {
	AlunoID     string  `json:"aluno_id" binding:"required"`
	Presente    bool    `json:"presente"`
	Observacoes *string `json:"observacoes,omitempty"`
}

// ChamadaRequest replaces the whole roll call for one class date. An empty
// Entradas list clears the date.
type ChamadaRequest struct {
	ModalidadeID string         `json:"modalidade_id" binding:"required"`
	DataAula     string         `json:"data_aula" binding:"required"`
	Entradas     []ChamadaEntry `json:"entradas"`
}

type PresencaResponse struct {
	ID            string  `json:"id"`
	AlunoID       string  `json:"aluno_id"`
	ModalidadeID  string  `json:"modalidade_id"`
	DataAula      string  `json:"data_aula"`
	Presente      bool    `json:"presente"`
	Observacoes   *string `json:"observacoes,omitempty"`
	RegistradoPor string  `json:"registrado_por"`
}

type PresencaDetalheResponse struct {
	PresencaResponse
	NomeAluno      string `json:"nome_aluno"`
	NomeModalidade string `json:"nome_modalidade"`
}

// ChamadaResponse is the saved roll call for one (modalidade, date).
type ChamadaResponse struct {
	ModalidadeID string             `json:"modalidade_id"`
	DataAula     string             `json:"data_aula"`
	Registros    []PresencaResponse `json:"registros"`
}

type ListQuery struct {
	ModalidadeID *string
	AlunoID      *string
	De           *string
	Ate          *string
	Limit        int
	Offset       int
}
