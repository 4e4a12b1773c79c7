package patients

import "context"

type Repository interface {
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)

	// List devuelve pacientes del más reciente al más antiguo.
	// search != "" filtra por substring sobre nombre, apellido o dni.
	List(ctx context.Context, search string) ([]Patient, error)
}
