package modalidades

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
)

// ===== Error model (same shape across the feature packages) =====
type Code string

const (
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeConflict         Code = "CONFLICT"
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
func ErrConflict(msg string) *APIError  { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError  { return &APIError{Code: CodeInternal, Message: msg} }

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
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ===== Service =====

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

// POST /modalidades (admin)
func (s *Service) Create(ctx context.Context, in CreateModalidadeRequest) (ModalidadeResponse, error) {
	nome := models.Atividade(in.Nome)
	if !nome.IsValid() {
		return ModalidadeResponse{}, ErrInvalid("invalid nome")
	}
	unidade := models.Unidade(in.Unidade)
	if !unidade.IsValid() {
		return ModalidadeResponse{}, ErrInvalid("invalid unidade")
	}
	if in.VagasMaximas <= 0 {
		return ModalidadeResponse{}, ErrInvalid("vagas_maximas must be > 0")
	}
	dias, err := parseDias(in.DiasSemana)
	if err != nil {
		return ModalidadeResponse{}, err
	}
	if err := validateHorarios(in.HorarioInicio, in.HorarioFim); err != nil {
		return ModalidadeResponse{}, err
	}
	if in.ProfessorID != nil && *in.ProfessorID != "" {
		role, err := s.store.GetProfileRole(ctx, *in.ProfessorID)
		if err != nil {
			return ModalidadeResponse{}, err
		}
		if role != models.Professor {
			return ModalidadeResponse{}, ErrInvalid("professor_id must reference a professor")
		}
	}

	ativo := true
	if in.Ativo != nil {
		ativo = *in.Ativo
	}
	m := &Modalidade{
		ID:            uuid.NewString(),
		Nome:          nome,
		Descricao:     in.Descricao,
		Unidade:       unidade,
		ProfessorID:   in.ProfessorID,
		VagasMaximas:  in.VagasMaximas,
		HorarioInicio: in.HorarioInicio,
		HorarioFim:    in.HorarioFim,
		DiasSemana:    dias,
		Ativo:         ativo,
	}
	if err := s.store.Insert(ctx, m); err != nil {
		return ModalidadeResponse{}, err
	}

	created, err := s.store.GetByID(ctx, m.ID)
	if err != nil {
		return ModalidadeResponse{}, err
	}
	if created == nil {
		return ModalidadeResponse{}, ErrInternal("inserted but not found")
	}
	return created.toDTO(), nil
}

// PUT /modalidades/:id (admin)
func (s *Service) Update(ctx context.Context, id string, in UpdateModalidadeRequest) (ModalidadeResponse, error) {
	if in.Nome != nil && !models.Atividade(*in.Nome).IsValid() {
		return ModalidadeResponse{}, ErrInvalid("invalid nome")
	}
	if in.Unidade != nil && !models.Unidade(*in.Unidade).IsValid() {
		return ModalidadeResponse{}, ErrInvalid("invalid unidade")
	}
	if in.VagasMaximas != nil && *in.VagasMaximas <= 0 {
		return ModalidadeResponse{}, ErrInvalid("vagas_maximas must be > 0")
	}
	if in.DiasSemana != nil {
		if _, err := parseDias(*in.DiasSemana); err != nil {
			return ModalidadeResponse{}, err
		}
	}
	if err := validateHorarios(in.HorarioInicio, in.HorarioFim); err != nil {
		return ModalidadeResponse{}, err
	}
	if in.ProfessorID != nil && *in.ProfessorID != "" {
		role, err := s.store.GetProfileRole(ctx, *in.ProfessorID)
		if err != nil {
			return ModalidadeResponse{}, err
		}
		if role != models.Professor {
			return ModalidadeResponse{}, ErrInvalid("professor_id must reference a professor")
		}
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ModalidadeResponse{}, err
	}
	if existing == nil {
		return ModalidadeResponse{}, ErrNotFound("modalidade not found")
	}

	if _, err := s.store.Update(ctx, id, in); err != nil {
		return ModalidadeResponse{}, err
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ModalidadeResponse{}, err
	}
	if updated == nil {
		return ModalidadeResponse{}, ErrInternal("updated but not found")
	}
	return updated.toDTO(), nil
}

// GET /modalidades/:id
func (s *Service) Get(ctx context.Context, id string) (ModalidadeResponse, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ModalidadeResponse{}, err
	}
	if m == nil {
		return ModalidadeResponse{}, ErrNotFound("modalidade not found")
	}
	return m.toDTO(), nil
}

// GET /modalidades. The visible slice depends on who asks: admins see
// everything, professores their own turmas, alunos the active offerings of
// their unit.
func (s *Service) List(ctx context.Context, caller auth.Identity, q ListQuery) ([]ModalidadeResponse, int64, error) {
	if q.Unidade != nil && *q.Unidade != "" && !models.Unidade(*q.Unidade).IsValid() {
		return nil, 0, ErrInvalid("invalid unidade filter")
	}

	switch caller.Role {
	case models.Admin:
		// unrestricted
	case models.Professor:
		q.ProfessorID = &caller.UserID
	case models.Aluno:
		unidade, err := s.store.GetProfileUnidade(ctx, caller.UserID)
		if err != nil {
			return nil, 0, err
		}
		if unidade == "" {
			return nil, 0, ErrNotFound("profile not found")
		}
		u := string(unidade)
		ativo := true
		q.Unidade = &u
		q.Ativo = &ativo
	default:
		return nil, 0, ErrForbidden("forbidden")
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ModalidadeResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// ===== helpers =====

func parseDias(in []string) ([]models.DiaSemana, error) {
	dias := make([]models.DiaSemana, 0, len(in))
	for _, d := range in {
		dia := models.DiaSemana(d)
		if !dia.IsValid() {
			return nil, ErrInvalid("invalid dia_semana: " + d)
		}
		dias = append(dias, dia)
	}
	return dias, nil
}

func validateHorarios(inicio, fim *string) error {
	var ti, tf time.Time
	var err error
	if inicio != nil && *inicio != "" {
		if ti, err = time.Parse(HourLayout, *inicio); err != nil {
			return ErrInvalid("horario_inicio must be HH:MM")
		}
	}
	if fim != nil && *fim != "" {
		if tf, err = time.Parse(HourLayout, *fim); err != nil {
			return ErrInvalid("horario_fim must be HH:MM")
		}
	}
	if inicio != nil && fim != nil && *inicio != "" && *fim != "" && !tf.After(ti) {
		return ErrInvalid("horario_fim must be after horario_inicio")
	}
	return nil
}
