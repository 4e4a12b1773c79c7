package treatments

import "time"

// Treatment es una entrada del catálogo de tratamientos base.
// Se crea y se borra independientemente de las sesiones registradas;
// las sesiones referencian por id nullable.
type Treatment struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
