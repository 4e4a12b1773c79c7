package patients

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Patient
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Patient{}}
}

func (r *testRepo) Create(ctx context.Context, p Patient) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Patient) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Patient, error) {
	p, ok := r.byID[id]
	if !ok {
		return Patient{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, search string) ([]Patient, error) {
	out := make([]Patient, 0)
	for _, p := range r.byID {
		if search == "" || strings.Contains(p.FirstName, search) ||
			strings.Contains(p.LastName, search) || strings.Contains(p.DNI, search) {
			out = append(out, p)
		}
	}
	return out, nil
}

func TestRegister_ValidatesRequiredFields(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []struct {
		name string
		in   Input
	}{
		{"sin dni", Input{FirstName: "Ana", LastName: "Garcia"}},
		{"sin nombre", Input{DNI: "11111111", LastName: "Garcia"}},
		{"sin apellido", Input{DNI: "11111111", FirstName: "Ana"}},
		{"edad negativa", Input{DNI: "11111111", FirstName: "Ana", LastName: "Garcia", Age: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegister_TrimsAndStamps(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	registered := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return registered }

	p, err := svc.Register(context.Background(), Input{
		DNI: " 11111111 ", FirstName: " Ana ", LastName: " Garcia ", Age: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("id must be assigned")
	}
	if p.DNI != "11111111" || p.FirstName != "Ana" || p.LastName != "Garcia" {
		t.Fatalf("fields not trimmed: %+v", p)
	}
	if !p.RegisteredAt.Equal(registered) {
		t.Fatalf("RegisteredAt = %v, want %v", p.RegisteredAt, registered)
	}
	if p.FullName() != "Ana Garcia" {
		t.Fatalf("FullName = %q", p.FullName())
	}
}

func TestEdit_ReplacesRecordButKeepsRegistration(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	registered := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return registered }

	p, err := svc.Register(context.Background(), Input{
		DNI: "11111111", FirstName: "Ana", LastName: "Garcia", Age: 30,
		Allergies: "penicilina",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Edición completa: lo no enviado queda vacío (reemplazo, no merge).
	updated, err := svc.Edit(context.Background(), p.ID, Input{
		DNI: "11111111", FirstName: "Ana Maria", LastName: "Garcia", Age: 31,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.FirstName != "Ana Maria" || updated.Age != 31 {
		t.Fatalf("edit not applied: %+v", updated)
	}
	if updated.Allergies != "" {
		t.Fatalf("edit is full replace, allergies should be cleared, got %q", updated.Allergies)
	}
	if !updated.RegisteredAt.Equal(registered) {
		t.Fatalf("RegisteredAt must be preserved, got %v", updated.RegisteredAt)
	}

	if _, err := svc.Edit(context.Background(), "no-such", Input{
		DNI: "1", FirstName: "X", LastName: "Y",
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("editing unknown patient: got %v", err)
	}
}
