package sessions

import "context"

// StockDecrement describe el descuento de stock de una línea.
// ByName fuerza el matching legado por nombre de producto.
type StockDecrement struct {
	ProductID string
	Product   string
	Quantity  int
	ByName    bool
}

// PhotoUpdate sobreescribe solo los grupos de slots provistos;
// una lista vacía deja el grupo como está.
type PhotoUpdate struct {
	Before []string
	After  []string
}

type Repository interface {
	// CreateBatch inserta las filas y aplica los descuentos de stock en
	// una sola transacción: o entra todo el envío o no entra nada.
	CreateBatch(ctx context.Context, rows []Session, decs []StockDecrement) error

	GetByID(ctx context.Context, id string) (Session, error)

	UpdatePhotos(ctx context.Context, id string, u PhotoUpdate) error

	// HistoryByPatient devuelve las sesiones del paciente de la más
	// reciente a la más antigua, con el nombre de tratamiento resuelto.
	HistoryByPatient(ctx context.Context, patientID string) ([]HistoryEntry, error)
}
