package inscricoes

import (
	"time"

	"instituto-backend/internal/models"
)

// DB row shape (scan target).
type inscricaoRow struct {
	ID            string
	AlunoID       string
	ModalidadeID  string
	Status        string
	DataInscricao time.Time
	DataAprovacao *time.Time
	Observacoes   *string
}

type Inscricao struct {
	ID            string
	AlunoID       string
	ModalidadeID  string
	Status        models.StatusInscricao
	DataInscricao time.Time
	DataAprovacao *time.Time
	Observacoes   *string
}

func (r inscricaoRow) toModel() Inscricao {
	var aprov *time.Time
	if r.DataAprovacao != nil {
		t := r.DataAprovacao.UTC()
		aprov = &t
	}
	return Inscricao{
		ID:            r.ID,
		AlunoID:       r.AlunoID,
		ModalidadeID:  r.ModalidadeID,
		Status:        models.StatusInscricao(r.Status),
		DataInscricao: r.DataInscricao.UTC(),
		DataAprovacao: aprov,
		Observacoes:   r.Observacoes,
	}
}

func (i Inscricao) toDTO() InscricaoResponse {
	return InscricaoResponse{
		ID:            i.ID,
		AlunoID:       i.AlunoID,
		ModalidadeID:  i.ModalidadeID,
		Status:        string(i.Status),
		DataInscricao: i.DataInscricao,
		DataAprovacao: i.DataAprovacao,
		Observacoes:   i.Observacoes,
	}
}

// modalidadeInfo is the slice of a modalidade the engine needs for its
// checks; the seat counter itself is only ever touched through the guarded
// UPDATE in the store.
type modalidadeInfo struct {
	ID            string
	Nome          models.Atividade
	Unidade       models.Unidade
	ProfessorID   *string
	VagasMaximas  int
	VagasOcupadas int
	Ativo         bool
}

// listedInscricao is an enrollment joined with the names the listing pages
// show.
type listedInscricao struct {
	Inscricao
	NomeModalidade models.Atividade
	UnidadeModalidade models.Unidade
	NomeAluno      string
}

func (l listedInscricao) toDTO() InscricaoDetalheResponse {
	return InscricaoDetalheResponse{
		InscricaoResponse: l.Inscricao.toDTO(),
		NomeModalidade:    string(l.NomeModalidade),
		LabelModalidade:   l.NomeModalidade.Label(),
		UnidadeModalidade: string(l.UnidadeModalidade),
		NomeAluno:         l.NomeAluno,
	}
}
