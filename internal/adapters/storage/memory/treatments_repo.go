package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"showclinic-backend/internal/domain/treatments"
)

type TreatmentsRepo struct {
	mu   sync.RWMutex
	byID map[string]treatments.Treatment
}

func NewTreatmentsRepo() *TreatmentsRepo {
	return &TreatmentsRepo{
		byID: make(map[string]treatments.Treatment),
	}
}

func (r *TreatmentsRepo) Create(ctx context.Context, t treatments.Treatment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		return errors.New("treatment id required")
	}
	if _, exists := r.byID[t.ID]; exists {
		return errors.New("treatment already exists")
	}
	r.byID[t.ID] = t
	return nil
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return treatments.Treatment{}, treatments.ErrNotFound
	}
	return t, nil
}

func (r *TreatmentsRepo) List(ctx context.Context) ([]treatments.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.Treatment, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *TreatmentsRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

// name devuelve el nombre del tratamiento o "" si no existe.
// Lo usa el repo de sesiones para resolver el historial.
func (r *TreatmentsRepo) name(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return ""
	}
	return t.Name
}
