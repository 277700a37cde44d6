package relatorios

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
	"instituto-backend/internal/presencas"
)

// ===== Error model (same shape across the feature packages) =====
type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeInternal         Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string       { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError   { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrForbidden(msg string) *APIError { return &APIError{Code: CodePermissionDenied, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodePermissionDenied:
			return 403
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	store *Store
	clock Clock
}

func NewService(d *sql.DB) *Service {
	return &Service{store: NewStore(d), clock: realClock{}}
}

func NewServiceWith(d *sql.DB, clock Clock) *Service {
	return &Service{store: NewStore(d), clock: clock}
}

func (s *Service) windowStart() time.Time {
	return s.clock.Now().AddDate(0, 0, -ReportWindowDays)
}

func toFrequencia(r freqRow) FrequenciaModalidade {
	pct := presencas.Frequency(r.Presentes, r.Total)
	return FrequenciaModalidade{
		ModalidadeID:   r.ModalidadeID,
		NomeModalidade: models.Atividade(r.Nome).Label(),
		Unidade:        r.Unidade,
		TotalAulas:     r.Total,
		Presencas:      r.Presentes,
		Percentual:     pct,
		Classificacao:  string(presencas.Classify(pct)),
	}
}

// FrequenciaAluno builds the per-aluno report over the full history. Alunos
// may only read themselves; professores only alunos enrolled in modalidades
// they own.
func (s *Service) FrequenciaAluno(ctx context.Context, caller auth.Identity, alunoID string) (FrequenciaAlunoResponse, error) {
	switch caller.Role {
	case models.Admin:
	case models.Aluno:
		if caller.UserID != alunoID {
			return FrequenciaAlunoResponse{}, ErrForbidden("alunos so consultam a propria frequencia")
		}
	case models.Professor:
		ok, err := s.store.AlunoOfProfessor(ctx, alunoID, caller.UserID)
		if err != nil {
			return FrequenciaAlunoResponse{}, err
		}
		if !ok {
			return FrequenciaAlunoResponse{}, ErrForbidden("aluno nao pertence as suas modalidades")
		}
	default:
		return FrequenciaAlunoResponse{}, ErrForbidden("permissao negada")
	}

	name, err := s.store.AlunoName(ctx, alunoID, models.Aluno)
	if err != nil {
		return FrequenciaAlunoResponse{}, err
	}
	if name == "" {
		return FrequenciaAlunoResponse{}, ErrNotFound("aluno nao encontrado")
	}

	rows, err := s.store.AlunoFrequencia(ctx, alunoID)
	if err != nil {
		return FrequenciaAlunoResponse{}, err
	}

	out := FrequenciaAlunoResponse{
		AlunoID:     alunoID,
		NomeAluno:   name,
		Modalidades: make([]FrequenciaModalidade, 0, len(rows)),
	}
	for _, r := range rows {
		out.Modalidades = append(out.Modalidades, toFrequencia(r))
		out.TotalAulas += r.Total
		out.TotalPresencas += r.Presentes
	}
	out.PercentualGeral = presencas.Frequency(out.TotalPresencas, out.TotalAulas)
	out.Classificacao = string(presencas.Classify(out.PercentualGeral))
	return out, nil
}

// FrequenciaModalidades is the admin report over the recent window.
func (s *Service) FrequenciaModalidades(ctx context.Context, unidade string) (FrequenciaModalidadesResponse, error) {
	var u *models.Unidade
	if unidade != "" {
		un := models.Unidade(unidade)
		if !un.IsValid() {
			return FrequenciaModalidadesResponse{}, ErrInvalid("unidade invalida")
		}
		u = &un
	}

	rows, err := s.store.ModalidadesFrequencia(ctx, s.windowStart(), u, nil)
	if err != nil {
		return FrequenciaModalidadesResponse{}, err
	}
	out := FrequenciaModalidadesResponse{
		JanelaDias:  ReportWindowDays,
		Modalidades: make([]FrequenciaModalidade, 0, len(rows)),
	}
	for _, r := range rows {
		out.Modalidades = append(out.Modalidades, toFrequencia(r))
	}
	return out, nil
}

// FrequenciaProfessor rolls the window report up across the professor's own
// modalidades. Professores may only read themselves; admins anyone.
func (s *Service) FrequenciaProfessor(ctx context.Context, caller auth.Identity, professorID string) (FrequenciaProfessorResponse, error) {
	switch caller.Role {
	case models.Admin:
	case models.Professor:
		if caller.UserID != professorID {
			return FrequenciaProfessorResponse{}, ErrForbidden("professores so consultam o proprio relatorio")
		}
	default:
		return FrequenciaProfessorResponse{}, ErrForbidden("permissao negada")
	}

	name, err := s.store.AlunoName(ctx, professorID, models.Professor)
	if err != nil {
		return FrequenciaProfessorResponse{}, err
	}
	if name == "" {
		return FrequenciaProfessorResponse{}, ErrNotFound("professor nao encontrado")
	}

	rows, err := s.store.ModalidadesFrequencia(ctx, s.windowStart(), nil, &professorID)
	if err != nil {
		return FrequenciaProfessorResponse{}, err
	}

	out := FrequenciaProfessorResponse{
		ProfessorID:   professorID,
		NomeProfessor: name,
		JanelaDias:    ReportWindowDays,
		Modalidades:   make([]FrequenciaModalidade, 0, len(rows)),
	}
	var total, presentes int
	for _, r := range rows {
		out.Modalidades = append(out.Modalidades, toFrequencia(r))
		total += r.Total
		presentes += r.Presentes
	}
	out.PercentualGeral = presencas.Frequency(presentes, total)
	out.Classificacao = string(presencas.Classify(out.PercentualGeral))
	return out, nil
}

// Dashboard serves the admin landing-page counters.
func (s *Service) Dashboard(ctx context.Context) (DashboardResponse, error) {
	return s.store.Dashboard(ctx)
}
