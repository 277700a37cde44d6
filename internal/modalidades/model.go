package modalidades

import (
	"time"

	"instituto-backend/internal/models"
)

// DB row shape (scan target).
type modalidadeRow struct {
	ID            string
	Nome          string
	Descricao     *string
	Unidade       string
	ProfessorID   *string
	VagasMaximas  int
	VagasOcupadas int
	HorarioInicio *string
	HorarioFim    *string
	DiasSemana    *string // csv of weekday tokens
	Ativo         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Modalidade struct {
	ID            string
	Nome          models.Atividade
	Descricao     *string
	Unidade       models.Unidade
	ProfessorID   *string
	VagasMaximas  int
	VagasOcupadas int
	HorarioInicio *string
	HorarioFim    *string
	DiasSemana    []models.DiaSemana
	Ativo         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r modalidadeRow) toModel() Modalidade {
	dias := []models.DiaSemana(nil)
	if r.DiasSemana != nil {
		dias, _ = models.ParseDiasSemana(*r.DiasSemana)
	}
	return Modalidade{
		ID:            r.ID,
		Nome:          models.Atividade(r.Nome),
		Descricao:     r.Descricao,
		Unidade:       models.Unidade(r.Unidade),
		ProfessorID:   r.ProfessorID,
		VagasMaximas:  r.VagasMaximas,
		VagasOcupadas: r.VagasOcupadas,
		HorarioInicio: r.HorarioInicio,
		HorarioFim:    r.HorarioFim,
		DiasSemana:    dias,
		Ativo:         r.Ativo,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func (m Modalidade) toDTO() ModalidadeResponse {
	dias := make([]string, 0, len(m.DiasSemana))
	for _, d := range m.DiasSemana {
		dias = append(dias, string(d))
	}
	disponiveis := m.VagasMaximas - m.VagasOcupadas
	if disponiveis < 0 {
		disponiveis = 0
	}
	return ModalidadeResponse{
		ID:               m.ID,
		Nome:             string(m.Nome),
		Label:            m.Nome.Label(),
		Descricao:        m.Descricao,
		Unidade:          string(m.Unidade),
		ProfessorID:      m.ProfessorID,
		VagasMaximas:     m.VagasMaximas,
		VagasOcupadas:    m.VagasOcupadas,
		VagasDisponiveis: disponiveis,
		HorarioInicio:    m.HorarioInicio,
		HorarioFim:       m.HorarioFim,
		DiasSemana:       dias,
		Ativo:            m.Ativo,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
