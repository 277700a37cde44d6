package modalidades

import "time"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
	HourLayout       = "15:04"
)

type CreateModalidadeRequest struct {
	Nome          string   `json:"nome" binding:"required"`
	Descricao     *string  `json:"descricao,omitempty"`
	Unidade       string   `json:"unidade" binding:"required"`
	ProfessorID   *string  `json:"professor_id,omitempty"`
	VagasMaximas  int      `json:"vagas_maximas" binding:"required"`
	HorarioInicio *string  `json:"horario_inicio,omitempty"` // "HH:MM"
	HorarioFim    *string  `json:"horario_fim,omitempty"`
	DiasSemana    []string `json:"dias_semana,omitempty"`
	Ativo         *bool    `json:"ativo,omitempty"` // default true
}

// UpdateModalidadeRequest writes only the provided fields. vagas_ocupadas is
// deliberately absent: the seat counter is owned by the enrollment flow.
type UpdateModalidadeRequest struct {
	Nome          *string   `json:"nome,omitempty"`
	Descricao     *string   `json:"descricao,omitempty"`
	Unidade       *string   `json:"unidade,omitempty"`
	ProfessorID   *string   `json:"professor_id,omitempty"`
	VagasMaximas  *int      `json:"vagas_maximas,omitempty"`
	HorarioInicio *string   `json:"horario_inicio,omitempty"`
	HorarioFim    *string   `json:"horario_fim,omitempty"`
	DiasSemana    *[]string `json:"dias_semana,omitempty"`
	Ativo         *bool     `json:"ativo,omitempty"`
}

type ModalidadeResponse struct {
	ID               string    `json:"id"`
	Nome             string    `json:"nome"`
	Label            string    `json:"label"`
	Descricao        *string   `json:"descricao,omitempty"`
	Unidade          string    `json:"unidade"`
	ProfessorID      *string   `json:"professor_id,omitempty"`
	VagasMaximas     int       `json:"vagas_maximas"`
	VagasOcupadas    int       `json:"vagas_ocupadas"`
	VagasDisponiveis int       `json:"vagas_disponiveis"`
	HorarioInicio    *string   `json:"horario_inicio,omitempty"`
	HorarioFim       *string   `json:"horario_fim,omitempty"`
	DiasSemana       []string  `json:"dias_semana"`
	Ativo            bool      `json:"ativo"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ListQuery struct {
	Unidade     *string
	ProfessorID *string
	Ativo       *bool
	Limit       int
	Offset      int
}
