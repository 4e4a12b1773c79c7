package specialists

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("specialist not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name      string
	Specialty string
	Phone     string
	Email     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Specialist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Specialist{}, ErrInvalidInput
	}

	sp := Specialist{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Specialty: strings.TrimSpace(in.Specialty),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
	}
	if err := s.repo.Create(ctx, sp); err != nil {
		return Specialist{}, err
	}
	return sp, nil
}

func (s *Service) List(ctx context.Context) ([]Specialist, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
