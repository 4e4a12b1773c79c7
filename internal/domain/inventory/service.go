package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("item not found")
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

// Input es el esquema explícito de un item; producto y marca obligatorios
// como en el formulario original.
type Input struct {
	Product  string
	Brand    string
	SKU      string
	Supplier string
	Content  string

	UnitPrice decimal.Decimal
	Stock     int

	ExpirationDate *time.Time
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Product) == "" {
		return ErrInvalidInput
	}
	if strings.TrimSpace(in.Brand) == "" {
		return ErrInvalidInput
	}
	if in.UnitPrice.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}

// Create registra un item; updatedBy es la identidad del caller y se
// estampa junto con la hora de la operación.
func (s *Service) Create(ctx context.Context, updatedBy string, in Input) (Item, error) {
	if err := in.validate(); err != nil {
		return Item{}, err
	}

	now := s.now()
	it := Item{
		ID:             uuid.NewString(),
		Product:        strings.TrimSpace(in.Product),
		Brand:          strings.TrimSpace(in.Brand),
		SKU:            strings.TrimSpace(in.SKU),
		Supplier:       strings.TrimSpace(in.Supplier),
		Content:        strings.TrimSpace(in.Content),
		UnitPrice:      in.UnitPrice,
		Stock:          in.Stock,
		ExpirationDate: in.ExpirationDate,
		LastUpdatedAt:  now,
		LastUpdatedBy:  callerOrUnknown(updatedBy),
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *Service) Update(ctx context.Context, id, updatedBy string, in Input) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrNotFound
	}
	if err := in.validate(); err != nil {
		return Item{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Item{}, ErrNotFound
	}

	updated := Item{
		ID:              current.ID,
		Product:         strings.TrimSpace(in.Product),
		Brand:           strings.TrimSpace(in.Brand),
		SKU:             strings.TrimSpace(in.SKU),
		Supplier:        strings.TrimSpace(in.Supplier),
		Content:         strings.TrimSpace(in.Content),
		UnitPrice:       in.UnitPrice,
		Stock:           in.Stock,
		ExpirationDate:  in.ExpirationDate,
		CurrentDocument: current.CurrentDocument,
		LastUpdatedAt:   s.now(),
		LastUpdatedBy:   callerOrUnknown(updatedBy),
		CreatedAt:       current.CreatedAt,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return Item{}, err
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) Brands(ctx context.Context) ([]string, error) {
	return s.repo.Brands(ctx)
}

// Delete devuelve cuántas filas borró. Un id inexistente no es error:
// devuelve 0 y el caller decide.
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, nil
	}
	return s.repo.Delete(ctx, id)
}

// AttachDocument agrega un PDF al historial del item y lo deja como vigente.
func (s *Service) AttachDocument(ctx context.Context, itemID, filename, uploadedBy string) (Document, error) {
	itemID = strings.TrimSpace(itemID)
	filename = strings.TrimSpace(filename)
	if itemID == "" || filename == "" {
		return Document{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return Document{}, ErrNotFound
	}

	doc := Document{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		Filename:   filename,
		UploadedBy: callerOrUnknown(uploadedBy),
		UploadedAt: s.now(),
	}
	if err := s.repo.AttachDocument(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Service) Documents(ctx context.Context, itemID string) ([]Document, error) {
	return s.repo.ListDocuments(ctx, strings.TrimSpace(itemID))
}

func callerOrUnknown(by string) string {
	by = strings.TrimSpace(by)
	if by == "" {
		return "Desconocido"
	}
	return by
}
