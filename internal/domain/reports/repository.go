package reports

import "context"

type Repository interface {
	// ListSessions aplica los filtros y ordena por fecha descendente.
	ListSessions(ctx context.Context, f Filter) ([]Row, error)
}
