package specialists

import "context"

type Repository interface {
	Create(ctx context.Context, sp Specialist) error

	// List ordena alfabéticamente por nombre.
	List(ctx context.Context) ([]Specialist, error)

	// Delete devuelve cuántas filas afectó (0 = no existía).
	Delete(ctx context.Context, id string) (int64, error)
}
