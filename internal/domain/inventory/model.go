package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item es un producto del inventario de insumos.
// Stock es entero y puede quedar negativo: el descuento por sesión
// no impone piso, igual que el sistema histórico.
type Item struct {
	ID       string
	Product  string
	Brand    string
	SKU      string
	Supplier string
	Content  string

	UnitPrice decimal.Decimal
	Stock     int

	ExpirationDate *time.Time

	// CurrentDocument apunta al último PDF subido; el historial completo
	// vive en Document.
	CurrentDocument string

	LastUpdatedAt time.Time
	LastUpdatedBy string
	CreatedAt     time.Time
}

// Document es una entrada del historial de PDFs adjuntos a un item.
type Document struct {
	ID         string
	ItemID     string
	Filename   string
	UploadedBy string
	UploadedAt time.Time
}
