package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"showclinic-backend/internal/domain/inventory"
	"showclinic-backend/internal/domain/sessions"
)

type InventoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]inventory.Item
	docs   map[string][]inventory.Document
	seq    map[string]int
	nextID int
}

func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{
		byID: make(map[string]inventory.Item),
		docs: make(map[string][]inventory.Document),
		seq:  make(map[string]int),
	}
}

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if it.ID == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return errors.New("item already exists")
	}
	r.byID[it.ID] = it
	r.nextID++
	r.seq[it.ID] = r.nextID
	return nil
}

func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[it.ID]
	if !exists {
		return inventory.ErrNotFound
	}
	// Update no toca el puntero al documento ni CreatedAt.
	it.CurrentDocument = current.CurrentDocument
	it.CreatedAt = current.CreatedAt
	r.byID[it.ID] = it
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return inventory.Item{}, inventory.ErrNotFound
	}
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Item, 0, len(r.byID))
	for _, it := range r.byID {
		out = append(out, it)
	}
	// CreatedAt desc; el número de alta desempata timestamps iguales.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID] > r.seq[out[j].ID]
	})
	return out, nil
}

func (r *InventoryRepo) Brands(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]struct{})
	for _, it := range r.byID {
		if it.Brand != "" {
			set[it.Brand] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return 0, nil
	}
	delete(r.byID, id)
	delete(r.docs, id)
	delete(r.seq, id)
	return 1, nil
}

func (r *InventoryRepo) AttachDocument(ctx context.Context, doc inventory.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, exists := r.byID[doc.ItemID]
	if !exists {
		return inventory.ErrNotFound
	}

	r.docs[doc.ItemID] = append(r.docs[doc.ItemID], doc)
	it.CurrentDocument = doc.Filename
	it.LastUpdatedAt = doc.UploadedAt
	it.LastUpdatedBy = doc.UploadedBy
	r.byID[doc.ItemID] = it
	return nil
}

func (r *InventoryRepo) ListDocuments(ctx context.Context, itemID string) ([]inventory.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.docs[itemID]
	out := make([]inventory.Document, len(src))
	copy(out, src)

	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

// applyDecrement descuenta stock sin piso: puede quedar negativo.
// Un producto inexistente no es error, igual que el UPDATE sin filas.
func (r *InventoryRepo) applyDecrement(d sessions.StockDecrement) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ByName {
		for id, it := range r.byID {
			if it.Product == d.Product {
				it.Stock -= d.Quantity
				r.byID[id] = it
			}
		}
		return
	}

	it, ok := r.byID[d.ProductID]
	if !ok {
		return
	}
	it.Stock -= d.Quantity
	r.byID[d.ProductID] = it
}
