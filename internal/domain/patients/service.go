package patients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("patient not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Input es el esquema explícito de la ficha: un campo por dato de admisión.
// Reemplaza los formularios de forma dinámica del sistema anterior.
type Input struct {
	DNI       string
	FirstName string
	LastName  string
	Age       int
	Sex       string

	Address    string
	Occupation string
	BirthDate  *time.Time
	BirthCity  string
	ResidCity  string

	Allergies  string
	Conditions string

	Email string
	Phone string

	CosmeticSurgery string
	Drugs           string
	Tobacco         string
	Alcohol         string

	ReferralSource string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.DNI) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(in.LastName) == "" {
		return ErrInvalidInput
	}
	if in.Age < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in Input) (Patient, error) {
	if err := in.validate(); err != nil {
		return Patient{}, err
	}

	p := Patient{
		ID:              uuid.NewString(),
		DNI:             strings.TrimSpace(in.DNI),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Age:             in.Age,
		Sex:             strings.TrimSpace(in.Sex),
		Address:         strings.TrimSpace(in.Address),
		Occupation:      strings.TrimSpace(in.Occupation),
		BirthDate:       in.BirthDate,
		BirthCity:       strings.TrimSpace(in.BirthCity),
		ResidCity:       strings.TrimSpace(in.ResidCity),
		Allergies:       strings.TrimSpace(in.Allergies),
		Conditions:      strings.TrimSpace(in.Conditions),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		CosmeticSurgery: strings.TrimSpace(in.CosmeticSurgery),
		Drugs:           strings.TrimSpace(in.Drugs),
		Tobacco:         strings.TrimSpace(in.Tobacco),
		Alcohol:         strings.TrimSpace(in.Alcohol),
		ReferralSource:  strings.TrimSpace(in.ReferralSource),
		RegisteredAt:    s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// Edit reemplaza la ficha completa, como el formulario de edición original.
// El registro nunca se borra; RegisteredAt se preserva.
func (s *Service) Edit(ctx context.Context, id string, in Input) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrInvalidInput
	}
	if err := in.validate(); err != nil {
		return Patient{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Patient{}, ErrNotFound
	}

	updated := Patient{
		ID:              current.ID,
		DNI:             strings.TrimSpace(in.DNI),
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Age:             in.Age,
		Sex:             strings.TrimSpace(in.Sex),
		Address:         strings.TrimSpace(in.Address),
		Occupation:      strings.TrimSpace(in.Occupation),
		BirthDate:       in.BirthDate,
		BirthCity:       strings.TrimSpace(in.BirthCity),
		ResidCity:       strings.TrimSpace(in.ResidCity),
		Allergies:       strings.TrimSpace(in.Allergies),
		Conditions:      strings.TrimSpace(in.Conditions),
		Email:           strings.TrimSpace(in.Email),
		Phone:           strings.TrimSpace(in.Phone),
		CosmeticSurgery: strings.TrimSpace(in.CosmeticSurgery),
		Drugs:           strings.TrimSpace(in.Drugs),
		Tobacco:         strings.TrimSpace(in.Tobacco),
		Alcohol:         strings.TrimSpace(in.Alcohol),
		ReferralSource:  strings.TrimSpace(in.ReferralSource),
		RegisteredAt:    current.RegisteredAt,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Patient{}, err
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, search string) ([]Patient, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}
