package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)

	// List devuelve items del más reciente al más antiguo.
	List(ctx context.Context) ([]Item, error)

	// Brands devuelve las marcas distintas no vacías, ordenadas.
	Brands(ctx context.Context) ([]string, error)

	// Delete devuelve cuántas filas afectó; 0 para un id inexistente
	// no es error (el caller distingue por el conteo).
	Delete(ctx context.Context, id string) (int64, error)

	// AttachDocument inserta el documento en el historial y actualiza el
	// puntero al documento vigente del item, de forma atómica.
	AttachDocument(ctx context.Context, doc Document) error

	ListDocuments(ctx context.Context, itemID string) ([]Document, error)
}
