package sessions

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem es el snapshot de una línea de venta al momento de registrar
// la sesión. Se serializa dentro de la fila y queda desacoplado de
// cambios posteriores de precio o stock en inventario.
type LineItem struct {
	Product   string          `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio"`
}

// Session es un tratamiento realizado: una fila por línea de venta.
// Las líneas de un mismo envío comparten RecordedAt para que las
// consultas posteriores las agrupen por momento de atención.
type Session struct {
	ID        string
	PatientID string

	// TreatmentID es nullable: una sesión puede registrarse sin entrada
	// de catálogo (ad-hoc), o la definición puede borrarse después.
	TreatmentID *string

	Items         []LineItem
	TotalQuantity int

	// Total ya tiene el descuento aplicado y es inmutable.
	Total       decimal.Decimal
	DiscountPct decimal.Decimal

	PaymentMethod string
	SessionNumber int
	AttentionType string
	Specialist    string

	// Fotos antes/después (hasta 3 cada una).
	BeforePhotos []string
	AfterPhotos  []string

	// Slots legados de la galería única, conservados por compatibilidad.
	PhotoLeft  string
	PhotoFront string
	PhotoRight string

	RecordedAt time.Time
}

// HistoryEntry es una sesión junto al nombre del tratamiento resuelto por
// LEFT JOIN; TreatmentName queda vacío si la definición ya no existe.
type HistoryEntry struct {
	Session
	TreatmentName string
}
