package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"instituto-backend/internal/models"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrAuthFailed    = errors.New("authentication failed")
	ErrInvalidInput  = errors.New("invalid input")
)

const tokenTTL = 24 * time.Hour

type Service struct {
	store  AccountStore
	secret []byte
}

func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(db), secret: secret}
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, in RegisterRequest) (*Account, error)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	acct, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"role": string(acct.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString(s.secret)
}

func (s *Service) Register(ctx context.Context, in RegisterRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || strings.TrimSpace(in.NomeCompleto) == "" {
		return nil, ErrInvalidInput
	}
	role := models.Role(in.Role)
	if !role.IsValid() {
		return nil, ErrInvalidInput
	}
	unidade := models.Unidade(in.Unidade)
	if !unidade.IsValid() {
		return nil, ErrInvalidInput
	}

	exists, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		NomeCompleto: strings.TrimSpace(in.NomeCompleto),
		Role:         role,
		Unidade:      unidade,
	}
	if err := s.store.Create(ctx, acct, strings.TrimSpace(in.Telefone)); err != nil {
		return nil, err
	}
	return acct, nil
}
