package inscricoes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
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

// mysqlDuplicate reports error 1062 (duplicate key). The unique index on
// (aluno_id, modalidade_id) is the backstop for concurrent double submits.
func mysqlDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// ===== Service =====

type Clock interface{ Now() time.Time }
type IDGen interface{ New() string }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type uuidGen struct{}

func (uuidGen) New() string { return uuid.NewString() }

type Service struct {
	db    *sql.DB
	store *Store
	clock Clock
	idGen IDGen
}

func NewService(d *sql.DB) *Service {
	return &Service{db: d, store: NewStore(d), clock: realClock{}, idGen: uuidGen{}}
}

// NewServiceWith injects the clock and id generator. Tests use it.
func NewServiceWith(d *sql.DB, clock Clock, idGen IDGen) *Service {
	return &Service{db: d, store: NewStore(d), clock: clock, idGen: idGen}
}

// Create enrolls the calling aluno. Seat accounting and the status decision
// happen in one transaction: when the guarded increment lands the enrollment
// is ativo, otherwise it joins the fila_espera.
func (s *Service) Create(ctx context.Context, caller auth.Identity, req CreateInscricaoRequest) (InscricaoResponse, error) {
	if caller.Role != models.Aluno {
		return InscricaoResponse{}, ErrForbidden("somente alunos podem se inscrever")
	}

	_, unidadeAluno, err := s.store.GetProfile(ctx, caller.UserID)
	if err != nil {
		return InscricaoResponse{}, err
	}
	if unidadeAluno == "" {
		return InscricaoResponse{}, ErrNotFound("perfil do aluno nao encontrado")
	}

	ins := Inscricao{
		ID:            s.idGen.New(),
		AlunoID:       caller.UserID,
		ModalidadeID:  req.ModalidadeID,
		DataInscricao: s.clock.Now(),
		Observacoes:   req.Observacoes,
	}

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		m, err := GetModalidadeTx(ctx, tx, req.ModalidadeID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrNotFound("modalidade nao encontrada")
		}
		if !m.Ativo {
			return ErrInvalid("modalidade inativa")
		}
		if m.Unidade != unidadeAluno {
			return ErrForbidden("modalidade pertence a outra unidade")
		}

		exists, err := HasInscricaoTx(ctx, tx, caller.UserID, req.ModalidadeID)
		if err != nil {
			return err
		}
		if exists {
			return ErrConflict("aluno ja inscrito nesta modalidade")
		}

		seated, err := TakeSeatTx(ctx, tx, req.ModalidadeID)
		if err != nil {
			return err
		}
		if seated {
			ins.Status = models.StatusAtivo
			now := ins.DataInscricao
			ins.DataAprovacao = &now
		} else {
			ins.Status = models.StatusFilaEspera
		}
		return InsertTx(ctx, tx, &ins)
	})
	if err != nil {
		if mysqlDuplicate(err) {
			return InscricaoResponse{}, ErrConflict("aluno ja inscrito nesta modalidade")
		}
		return InscricaoResponse{}, err
	}
	return ins.toDTO(), nil
}

// Approve promotes a waitlisted enrollment. Only the professor who owns the
// modalidade, or an admin, may approve. A full modalidade rejects the
// promotion instead of overbooking.
func (s *Service) Approve(ctx context.Context, caller auth.Identity, id string) (InscricaoResponse, error) {
	if caller.Role != models.Professor && caller.Role != models.Admin {
		return InscricaoResponse{}, ErrForbidden("permissao negada")
	}

	var out Inscricao
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		ins, err := GetByIDForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if ins == nil {
			return ErrNotFound("inscricao nao encontrada")
		}
		if ins.Status != models.StatusFilaEspera {
			return ErrConflict("inscricao nao esta na fila de espera")
		}

		m, err := GetModalidadeTx(ctx, tx, ins.ModalidadeID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrNotFound("modalidade nao encontrada")
		}
		if caller.Role == models.Professor {
			if m.ProfessorID == nil || *m.ProfessorID != caller.UserID {
				return ErrForbidden("modalidade pertence a outro professor")
			}
		}

		seated, err := TakeSeatTx(ctx, tx, ins.ModalidadeID)
		if err != nil {
			return err
		}
		if !seated {
			return ErrConflict("modalidade sem vagas disponiveis")
		}

		now := s.clock.Now()
		if err := ApproveTx(ctx, tx, ins.ID, now); err != nil {
			return err
		}
		ins.Status = models.StatusAtivo
		ins.DataAprovacao = &now
		out = *ins
		return nil
	})
	if err != nil {
		return InscricaoResponse{}, err
	}
	return out.toDTO(), nil
}

// Reject removes the enrollment outright. The seat counter is not touched,
// so rejecting is only meant for waitlisted records; a second call on the
// same id reports NOT_FOUND.
func (s *Service) Reject(ctx context.Context, caller auth.Identity, id string) error {
	if caller.Role != models.Professor && caller.Role != models.Admin {
		return ErrForbidden("permissao negada")
	}

	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		ins, err := GetByIDForUpdateTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if ins == nil {
			return ErrNotFound("inscricao nao encontrada")
		}

		m, err := GetModalidadeTx(ctx, tx, ins.ModalidadeID)
		if err != nil {
			return err
		}
		if caller.Role == models.Professor {
			if m == nil || m.ProfessorID == nil || *m.ProfessorID != caller.UserID {
				return ErrForbidden("modalidade pertence a outro professor")
			}
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM inscricoes WHERE id = ?`, ins.ID)
		return err
	})
}

// ListMine returns the caller's own enrollments.
func (s *Service) ListMine(ctx context.Context, caller auth.Identity) ([]InscricaoDetalheResponse, error) {
	items, err := s.store.ListByAluno(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]InscricaoDetalheResponse, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDTO())
	}
	return out, nil
}

// List serves the professor and admin views. Professores only ever see
// enrollments of modalidades they own.
func (s *Service) List(ctx context.Context, caller auth.Identity, q ListQuery) ([]InscricaoDetalheResponse, int64, error) {
	var professorID *string
	switch caller.Role {
	case models.Admin:
	case models.Professor:
		id := caller.UserID
		professorID = &id
	default:
		return nil, 0, ErrForbidden("permissao negada")
	}

	if q.Status != nil && *q.Status != "" && !models.StatusInscricao(*q.Status).IsValid() {
		return nil, 0, ErrInvalid("status invalido")
	}

	items, total, err := s.store.List(ctx, q, professorID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InscricaoDetalheResponse, 0, len(items))
	for _, it := range items {
		out = append(out, it.toDTO())
	}
	return out, total, nil
}
