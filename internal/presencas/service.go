package presencas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"instituto-backend/internal/models"
	"instituto-backend/internal/platform/auth"
	"instituto-backend/internal/platform/db"
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

type IDGen interface{ New() string }

type uuidGen struct{}

func (uuidGen) New() string { return uuid.NewString() }

type Service struct {
	db    *sql.DB
	store *Store
	idGen IDGen
}

func NewService(d *sql.DB) *Service {
	return &Service{db: d, store: NewStore(d), idGen: uuidGen{}}
}

func NewServiceWith(d *sql.DB, idGen IDGen) *Service {
	return &Service{db: d, store: NewStore(d), idGen: idGen}
}

// RecordChamada replaces the roll call for one (modalidade, date). Delete
// then insert inside a transaction, so resubmitting the same payload lands
// in the same final state and an empty payload clears the date.
func (s *Service) RecordChamada(ctx context.Context, caller auth.Identity, req ChamadaRequest) (ChamadaResponse, error) {
	dataAula, err := time.Parse(dateLayout, req.DataAula)
	if err != nil {
		return ChamadaResponse{}, ErrInvalid("data_aula deve estar no formato YYYY-MM-DD")
	}

	m, err := s.store.GetModalidadeOwner(ctx, req.ModalidadeID)
	if err != nil {
		return ChamadaResponse{}, err
	}
	if m == nil {
		return ChamadaResponse{}, ErrNotFound("modalidade nao encontrada")
	}
	if err := s.canManage(caller, m); err != nil {
		return ChamadaResponse{}, err
	}

	seen := make(map[string]bool, len(req.Entradas))
	for _, e := range req.Entradas {
		if seen[e.AlunoID] {
			return ChamadaResponse{}, ErrInvalid("aluno repetido na chamada: " + e.AlunoID)
		}
		seen[e.AlunoID] = true
	}

	saved := make([]Presenca, 0, len(req.Entradas))
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		ativos, err := ActiveAlunosTx(ctx, tx, req.ModalidadeID)
		if err != nil {
			return err
		}
		for _, e := range req.Entradas {
			if !ativos[e.AlunoID] {
				return ErrInvalid("aluno sem inscricao ativa na modalidade: " + e.AlunoID)
			}
		}

		if err := ClearDateTx(ctx, tx, req.ModalidadeID, dataAula); err != nil {
			return err
		}
		for _, e := range req.Entradas {
			p := Presenca{
				ID:            s.idGen.New(),
				AlunoID:       e.AlunoID,
				ModalidadeID:  req.ModalidadeID,
				DataAula:      dataAula,
				Presente:      e.Presente,
				Observacoes:   e.Observacoes,
				RegistradoPor: caller.UserID,
			}
			if err := InsertTx(ctx, tx, &p); err != nil {
				return err
			}
			saved = append(saved, p)
		}
		return nil
	})
	if err != nil {
		return ChamadaResponse{}, err
	}

	out := ChamadaResponse{
		ModalidadeID: req.ModalidadeID,
		DataAula:     req.DataAula,
		Registros:    make([]PresencaResponse, 0, len(saved)),
	}
	for _, p := range saved {
		out.Registros = append(out.Registros, p.toDTO())
	}
	return out, nil
}

// GetChamada returns the saved records for a date so the roll call screen
// can pre-fill before a resubmission.
func (s *Service) GetChamada(ctx context.Context, caller auth.Identity, modalidadeID, dataAulaStr string) (ChamadaResponse, error) {
	dataAula, err := time.Parse(dateLayout, dataAulaStr)
	if err != nil {
		return ChamadaResponse{}, ErrInvalid("data_aula deve estar no formato YYYY-MM-DD")
	}

	m, err := s.store.GetModalidadeOwner(ctx, modalidadeID)
	if err != nil {
		return ChamadaResponse{}, err
	}
	if m == nil {
		return ChamadaResponse{}, ErrNotFound("modalidade nao encontrada")
	}
	if err := s.canManage(caller, m); err != nil {
		return ChamadaResponse{}, err
	}

	items, err := s.store.GetChamada(ctx, modalidadeID, dataAula)
	if err != nil {
		return ChamadaResponse{}, err
	}
	out := ChamadaResponse{
		ModalidadeID: modalidadeID,
		DataAula:     dataAulaStr,
		Registros:    make([]PresencaResponse, 0, len(items)),
	}
	for _, p := range items {
		out.Registros = append(out.Registros, p.toDTO())
	}
	return out, nil
}

// List scopes results by role: alunos see only their own records, professores
// are limited to modalidades they own, admins see everything.
func (s *Service) List(ctx context.Context, caller auth.Identity, q ListQuery) ([]PresencaDetalheResponse, int64, error) {
	var professorID *string
	switch caller.Role {
	case models.Admin:
	case models.Professor:
		id := caller.UserID
		professorID = &id
	case models.Aluno:
		id := caller.UserID
		q.AlunoID = &id
	default:
		return nil, 0, ErrForbidden("permissao negada")
	}

	for _, d := range []*string{q.De, q.Ate} {
		if d != nil && *d != "" {
			if _, err := time.Parse(dateLayout, *d); err != nil {
				return nil, 0, ErrInvalid("datas devem estar no formato YYYY-MM-DD")
			}
		}
	}

	items, total, err := s.store.List(ctx, q, professorID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PresencaDetalheResponse, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDTO())
	}
	return out, total, nil
}

func (s *Service) canManage(caller auth.Identity, m *modalidadeOwner) error {
	switch caller.Role {
	case models.Admin:
		return nil
	case models.Professor:
		if m.ProfessorID != nil && *m.ProfessorID == caller.UserID {
			return nil
		}
		return ErrForbidden("modalidade pertence a outro professor")
	default:
		return ErrForbidden("permissao negada")
	}
}
