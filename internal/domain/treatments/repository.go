package treatments

import "context"

type Repository interface {
	Create(ctx context.Context, t Treatment) error
	GetByID(ctx context.Context, id string) (Treatment, error)
	List(ctx context.Context) ([]Treatment, error)

	// Delete devuelve cuántas filas afectó (0 = no existía).
	Delete(ctx context.Context, id string) (int64, error)
}
