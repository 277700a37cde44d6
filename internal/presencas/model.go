package presencas

import "time"

// dateLayout is the wire format for data_aula.
const dateLayout = "2006-01-02"

type presencaRow struct {
	ID            string
	AlunoID       string
	ModalidadeID  string
	DataAula      time.Time
	Presente      bool
	Observacoes   *string
	RegistradoPor string
}

type Presenca struct {
	ID            string
	AlunoID       string
	ModalidadeID  string
	DataAula      time.Time
	Presente      bool
	Observacoes   *string
	RegistradoPor string
}

func (r presencaRow) toModel() Presenca {
	return Presenca{
		ID:            r.ID,
		AlunoID:       r.AlunoID,
		ModalidadeID:  r.ModalidadeID,
		DataAula:      r.DataAula,
		Presente:      r.Presente,
		Observacoes:   r.Observacoes,
		RegistradoPor: r.RegistradoPor,
	}
}

func (p Presenca) toDTO() PresencaResponse {
	return PresencaResponse{
		ID:            p.ID,
		AlunoID:       p.AlunoID,
		ModalidadeID:  p.ModalidadeID,
		DataAula:      p.DataAula.Format(dateLayout),
		Presente:      p.Presente,
		Observacoes:   p.Observacoes,
		RegistradoPor: p.RegistradoPor,
	}
}

// listedPresenca carries the joined names for the listing view.
type listedPresenca struct {
	Presenca
	NomeAluno      string
	NomeModalidade string
}

func (l listedPresenca) toDTO() PresencaDetalheResponse {
	return PresencaDetalheResponse{
		PresencaResponse: l.Presenca.toDTO(),
		NomeAluno:        l.NomeAluno,
		NomeModalidade:   l.NomeModalidade,
	}
}
