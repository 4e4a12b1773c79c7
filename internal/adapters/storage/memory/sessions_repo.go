package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"showclinic-backend/internal/domain/sessions"
)

// SessionsRepo guarda las sesiones y coordina con el inventario en memoria
// para aplicar los descuentos de stock del mismo envío.
type SessionsRepo struct {
	mu     sync.RWMutex
	byID   map[string]sessions.Session
	seq    map[string]int
	nextID int

	inv        *InventoryRepo
	treatments *TreatmentsRepo
}

func NewSessionsRepo(inv *InventoryRepo, treatments *TreatmentsRepo) *SessionsRepo {
	return &SessionsRepo{
		byID:       make(map[string]sessions.Session),
		seq:        make(map[string]int),
		inv:        inv,
		treatments: treatments,
	}
}

func (r *SessionsRepo) CreateBatch(ctx context.Context, rows []sessions.Session, decs []sessions.StockDecrement) error {
	r.mu.Lock()

	for _, s := range rows {
		if s.ID == "" {
			r.mu.Unlock()
			return errors.New("session id required")
		}
		if _, exists := r.byID[s.ID]; exists {
			r.mu.Unlock()
			return errors.New("session already exists")
		}
	}
	for _, s := range rows {
		r.byID[s.ID] = s
		r.nextID++
		r.seq[s.ID] = r.nextID
	}
	r.mu.Unlock()

	for _, d := range decs {
		r.inv.applyDecrement(d)
	}
	return nil
}

func (r *SessionsRepo) GetByID(ctx context.Context, id string) (sessions.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return sessions.Session{}, sessions.ErrNotFound
	}
	return s, nil
}

func (r *SessionsRepo) UpdatePhotos(ctx context.Context, id string, u sessions.PhotoUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return sessions.ErrNotFound
	}

	if len(u.Before) > 0 {
		s.BeforePhotos = u.Before
	}
	if len(u.After) > 0 {
		s.AfterPhotos = u.After
	}
	r.byID[id] = s
	return nil
}

func (r *SessionsRepo) HistoryByPatient(ctx context.Context, patientID string) ([]sessions.HistoryEntry, error) {
	r.mu.RLock()
	out := make([]sessions.HistoryEntry, 0)
	for _, s := range r.byID {
		if s.PatientID != patientID {
			continue
		}
		out = append(out, sessions.HistoryEntry{Session: s})
	}

	// Fecha desc; las líneas de un mismo envío comparten timestamp,
	// así que desempata el orden de inserción.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	r.mu.RUnlock()

	for i := range out {
		if out[i].TreatmentID != nil {
			out[i].TreatmentName = r.treatments.name(*out[i].TreatmentID)
		}
	}
	return out, nil
}
