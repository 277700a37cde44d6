package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

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

// GET /profiles/me and GET /profiles/:id
func (s *Service) Get(ctx context.Context, id string) (ProfileResponse, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, err
	}
	if p == nil {
		return ProfileResponse{}, ErrNotFound("profile not found")
	}
	return p.toDTO(), nil
}

// PUT /profiles/me
func (s *Service) UpdateOwn(ctx context.Context, caller auth.Identity, in UpdateProfileRequest) (ProfileResponse, error) {
	return s.update(ctx, caller.UserID, AdminUpdateProfileRequest{UpdateProfileRequest: in})
}

// PUT /profiles/:id (admin)
func (s *Service) UpdateByAdmin(ctx context.Context, id string, in AdminUpdateProfileRequest) (ProfileResponse, error) {
	if in.Role != nil && !models.Role(*in.Role).IsValid() {
		return ProfileResponse{}, ErrInvalid("invalid role")
	}
	return s.update(ctx, id, in)
}

func (s *Service) update(ctx context.Context, id string, in AdminUpdateProfileRequest) (ProfileResponse, error) {
	if in.NomeCompleto != nil && strings.TrimSpace(*in.NomeCompleto) == "" {
		return ProfileResponse{}, ErrInvalid("nome_completo must not be empty")
	}
	if in.Unidade != nil && !models.Unidade(*in.Unidade).IsValid() {
		return ProfileResponse{}, ErrInvalid("invalid unidade")
	}
	if in.DataNascimento != nil && *in.DataNascimento != "" {
		if _, err := time.Parse(DateLayout, *in.DataNascimento); err != nil {
			return ProfileResponse{}, ErrInvalid("data_nascimento must be YYYY-MM-DD")
		}
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, err
	}
	if existing == nil {
		return ProfileResponse{}, ErrNotFound("profile not found")
	}

	if _, err := s.store.Update(ctx, id, in); err != nil {
		return ProfileResponse{}, err
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return ProfileResponse{}, err
	}
	if updated == nil {
		return ProfileResponse{}, ErrInternal("updated but not found")
	}
	return updated.toDTO(), nil
}

// GET /profiles (admin)
func (s *Service) List(ctx context.Context, q ListQuery) ([]ProfileResponse, int64, error) {
	if q.Role != nil && *q.Role != "" && !models.Role(*q.Role).IsValid() {
		return nil, 0, ErrInvalid("invalid role filter")
	}
	if q.Unidade != nil && *q.Unidade != "" && !models.Unidade(*q.Unidade).IsValid() {
		return nil, 0, ErrInvalid("invalid unidade filter")
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProfileResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDTO())
	}
	return out, total, nil
}

// POST /profiles (admin). The original exposes this as the "novo usuário"
// admin page; it shares the registration semantics but skips email
// verification entirely.
func (s *Service) Create(ctx context.Context, in CreateProfileRequest) (ProfileResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.NomeCompleto) == "" {
		return ProfileResponse{}, ErrInvalid("email, password and nome_completo are required")
	}
	role := models.Role(in.Role)
	if !role.IsValid() {
		return ProfileResponse{}, ErrInvalid("invalid role")
	}
	unidade := models.Unidade(in.Unidade)
	if !unidade.IsValid() {
		return ProfileResponse{}, ErrInvalid("invalid unidade")
	}
	if in.DataNascimento != nil && *in.DataNascimento != "" {
		if _, err := time.Parse(DateLayout, *in.DataNascimento); err != nil {
			return ProfileResponse{}, ErrInvalid("data_nascimento must be YYYY-MM-DD")
		}
	}

	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return ProfileResponse{}, err
	}
	if exists {
		return ProfileResponse{}, ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return ProfileResponse{}, err
	}

	p := &Profile{
		ID:                  uuid.NewString(),
		Email:               email,
		NomeCompleto:        strings.TrimSpace(in.NomeCompleto),
		Role:                role,
		Unidade:             unidade,
		Telefone:            in.Telefone,
		Endereco:            in.Endereco,
		DataNascimento:      in.DataNascimento,
		ResponsavelNome:     in.ResponsavelNome,
		ResponsavelTelefone: in.ResponsavelTelefone,
	}
	if err := s.store.Insert(ctx, p, string(hash)); err != nil {
		return ProfileResponse{}, err
	}

	created, err := s.store.GetByID(ctx, p.ID)
	if err != nil {
		return ProfileResponse{}, err
	}
	if created == nil {
		return ProfileResponse{}, ErrInternal("inserted but not found")
	}
	return created.toDTO(), nil
}
