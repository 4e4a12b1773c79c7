package sessions

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
	ErrNotFound     = errors.New("session not found")
)

const (
	defaultSpecialist    = "No especificado"
	defaultAttentionType = "Tratamiento"
	maxPhotosPerGroup    = 3
)

var oneHundred = decimal.NewFromInt(100)

type Options struct {
	// MatchStockByName fuerza el matching legado por nombre de producto
	// para todos los descuentos de stock, aunque venga producto_id.
	MatchStockByName bool
}

type Service struct {
	repo Repository
	opts Options
	now  func() time.Time
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{
		repo: repo,
		opts: opts,
		now:  time.Now,
	}
}

// LineInput es una línea del envío. ProductID es opcional: sin él (o con
// MatchStockByName) el stock se descuenta por nombre, como el sistema viejo.
type LineInput struct {
	TreatmentID string
	ProductID   string
	Product     string
	Quantity    int
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
}

type SubmitInput struct {
	PatientID     string
	Specialist    string
	PaymentMethod string
	SessionNumber int
	AttentionType string
	Lines         []LineInput
}

// Submit registra una fila por línea con un mismo timestamp de captura y
// descuenta stock por cada línea, todo dentro de una transacción.
//
// Por línea: subtotal = precio × cantidad; total = subtotal − subtotal × descuento/100.
// El total queda redondeado a 2 decimales y no cambia nunca más.
func (s *Service) Submit(ctx context.Context, in SubmitInput) ([]Session, error) {
	if strings.TrimSpace(in.PatientID) == "" {
		return nil, ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, ErrInvalidInput
	}

	specialist := strings.TrimSpace(in.Specialist)
	if specialist == "" {
		specialist = defaultSpecialist
	}
	attention := strings.TrimSpace(in.AttentionType)
	if attention == "" {
		attention = defaultAttentionType
	}
	sessionNumber := in.SessionNumber
	if sessionNumber <= 0 {
		sessionNumber = 1
	}

	now := s.now()

	rows := make([]Session, 0, len(in.Lines))
	decs := make([]StockDecrement, 0, len(in.Lines))

	for _, line := range in.Lines {
		product := strings.TrimSpace(line.Product)
		if product == "" || line.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
		if line.UnitPrice.IsNegative() {
			return nil, ErrInvalidInput
		}
		if line.DiscountPct.IsNegative() || line.DiscountPct.GreaterThan(oneHundred) {
			return nil, ErrInvalidInput
		}

		var treatmentID *string
		if t := strings.TrimSpace(line.TreatmentID); t != "" {
			treatmentID = &t
		}

		rows = append(rows, Session{
			ID:          uuid.NewString(),
			PatientID:   strings.TrimSpace(in.PatientID),
			TreatmentID: treatmentID,
			Items: []LineItem{{
				Product:   product,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}},
			TotalQuantity: line.Quantity,
			Total:         LineTotal(line.UnitPrice, line.Quantity, line.DiscountPct),
			DiscountPct:   line.DiscountPct,
			PaymentMethod: strings.TrimSpace(in.PaymentMethod),
			SessionNumber: sessionNumber,
			AttentionType: attention,
			Specialist:    specialist,
			RecordedAt:    now,
		})

		productID := strings.TrimSpace(line.ProductID)
		decs = append(decs, StockDecrement{
			ProductID: productID,
			Product:   product,
			Quantity:  line.Quantity,
			ByName:    s.opts.MatchStockByName || productID == "",
		})
	}

	if err := s.repo.CreateBatch(ctx, rows, decs); err != nil {
		return nil, err
	}
	return rows, nil
}

// LineTotal calcula precio × cantidad × (1 − descuento/100) a 2 decimales.
func LineTotal(unitPrice decimal.Decimal, quantity int, discountPct decimal.Decimal) decimal.Decimal {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	discount := subtotal.Mul(discountPct).Div(oneHundred)
	return subtotal.Sub(discount).Round(2)
}

// AttachPhotos guarda hasta 3 fotos "antes" y 3 "después". Un lote legado
// único (hasta 6) se reparte: las primeras 3 como antes, el resto después.
// Solo se sobreescriben los grupos provistos.
func (s *Service) AttachPhotos(ctx context.Context, id string, before, after, legacy []string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrNotFound
	}

	before = cleanFilenames(before)
	after = cleanFilenames(after)
	legacy = cleanFilenames(legacy)

	if len(before) == 0 && len(after) == 0 {
		if len(legacy) == 0 {
			return Session{}, ErrInvalidInput
		}
		if len(legacy) > 2*maxPhotosPerGroup {
			return Session{}, ErrInvalidInput
		}
		if len(legacy) > maxPhotosPerGroup {
			before = legacy[:maxPhotosPerGroup]
			after = legacy[maxPhotosPerGroup:]
		} else {
			before = legacy
		}
	}

	if len(before) > maxPhotosPerGroup || len(after) > maxPhotosPerGroup {
		return Session{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return Session{}, ErrNotFound
	}

	if err := s.repo.UpdatePhotos(ctx, id, PhotoUpdate{Before: before, After: after}); err != nil {
		return Session{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// History agrupa el historial clínico completo del paciente.
// TotalAmount se recalcula en cada llamada sumando los totales de fila.
type History struct {
	Entries     []HistoryEntry
	TotalAmount decimal.Decimal
}

func (s *Service) History(ctx context.Context, patientID string) (History, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return History{}, ErrInvalidInput
	}

	entries, err := s.repo.HistoryByPatient(ctx, patientID)
	if err != nil {
		return History{}, err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Total)
	}

	return History{Entries: entries, TotalAmount: total}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func cleanFilenames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, f := range in {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
