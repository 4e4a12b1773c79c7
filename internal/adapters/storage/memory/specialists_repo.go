package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"showclinic-backend/internal/domain/specialists"
)

type SpecialistsRepo struct {
	mu   sync.RWMutex
	byID map[string]specialists.Specialist
}

func NewSpecialistsRepo() *SpecialistsRepo {
	return &SpecialistsRepo{
		byID: make(map[string]specialists.Specialist),
	}
}

func (r *SpecialistsRepo) Create(ctx context.Context, sp specialists.Specialist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sp.ID == "" {
		return errors.New("specialist id required")
	}
	if _, exists := r.byID[sp.ID]; exists {
		return errors.New("specialist already exists")
	}
	r.byID[sp.ID] = sp
	return nil
}

func (r *SpecialistsRepo) List(ctx context.Context) ([]specialists.Specialist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]specialists.Specialist, 0, len(r.byID))
	for _, sp := range r.byID {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *SpecialistsRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}
