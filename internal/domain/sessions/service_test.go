package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID  map[string]Session
	order []string
	decs  []StockDecrement
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Session{}}
}

func (r *testRepo) CreateBatch(ctx context.Context, rows []Session, decs []StockDecrement) error {
	for _, s := range rows {
		if s.ID == "" {
			return errors.New("repo: id required")
		}
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	r.decs = append(r.decs, decs...)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Session, error) {
	s, ok := r.byID[id]
	if !ok {
		return Session{}, errRepoNotFound
	}
	return s, nil
}

func (r *testRepo) UpdatePhotos(ctx context.Context, id string, u PhotoUpdate) error {
	s, ok := r.byID[id]
	if !ok {
		return errRepoNotFound
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

func (r *testRepo) HistoryByPatient(ctx context.Context, patientID string) ([]HistoryEntry, error) {
	out := make([]HistoryEntry, 0)
	for _, id := range r.order {
		s := r.byID[id]
		if s.PatientID == patientID {
			out = append(out, HistoryEntry{Session: s})
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
}

// -------------------------
// Submit
// -------------------------

func TestSubmit_OneRowPerLineSharedTimestamp(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})
	svc.now = fixedNow

	rows, err := svc.Submit(context.Background(), SubmitInput{
		PatientID:     "p-1",
		Specialist:    "Dra. Rojas",
		PaymentMethod: "Efectivo",
		SessionNumber: 2,
		AttentionType: "Limpieza",
		Lines: []LineInput{
			{Product: "Botox", Quantity: 2, UnitPrice: dec("100"), DiscountPct: dec("10")},
			{Product: "Crema", Quantity: 1, UnitPrice: dec("50")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].RecordedAt.Equal(rows[1].RecordedAt) {
		t.Fatalf("rows from one submission must share RecordedAt: %v vs %v",
			rows[0].RecordedAt, rows[1].RecordedAt)
	}
	if !rows[0].RecordedAt.Equal(fixedNow()) {
		t.Fatalf("RecordedAt = %v, want %v", rows[0].RecordedAt, fixedNow())
	}

	// 2 × 100 con 10% = 180.00
	if got := rows[0].Total; !got.Equal(dec("180")) {
		t.Fatalf("row 0 total = %s, want 180", got)
	}
	if got := rows[1].Total; !got.Equal(dec("50")) {
		t.Fatalf("row 1 total = %s, want 50", got)
	}

	for _, row := range rows {
		if len(row.Items) != 1 {
			t.Fatalf("each row carries exactly its own line, got %d items", len(row.Items))
		}
		if row.PaymentMethod != "Efectivo" || row.SessionNumber != 2 {
			t.Fatalf("row metadata not propagated: %+v", row)
		}
	}

	if len(repo.decs) != 2 {
		t.Fatalf("expected one stock decrement per line, got %d", len(repo.decs))
	}
	if repo.decs[0].Product != "Botox" || repo.decs[0].Quantity != 2 {
		t.Fatalf("unexpected decrement: %+v", repo.decs[0])
	}
}

func TestSubmit_Defaults(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})
	svc.now = fixedNow

	rows, err := svc.Submit(context.Background(), SubmitInput{
		PatientID: "p-1",
		Lines:     []LineInput{{Product: "Crema", Quantity: 1, UnitPrice: dec("10")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Specialist != "No especificado" {
		t.Fatalf("specialist default = %q", rows[0].Specialist)
	}
	if rows[0].AttentionType != "Tratamiento" {
		t.Fatalf("attention type default = %q", rows[0].AttentionType)
	}
	if rows[0].SessionNumber != 1 {
		t.Fatalf("session number default = %d", rows[0].SessionNumber)
	}
}

func TestSubmit_RejectsEmptyAndInvalidLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineInput
	}{
		{"sin líneas", nil},
		{"cantidad cero", []LineInput{{Product: "Botox", Quantity: 0, UnitPrice: dec("10")}}},
		{"producto vacío", []LineInput{{Product: "  ", Quantity: 1, UnitPrice: dec("10")}}},
		{"precio negativo", []LineInput{{Product: "Botox", Quantity: 1, UnitPrice: dec("-1")}}},
		{"descuento fuera de rango", []LineInput{{Product: "Botox", Quantity: 1, UnitPrice: dec("10"), DiscountPct: dec("101")}}},
		{"una línea buena y una mala", []LineInput{
			{Product: "Botox", Quantity: 1, UnitPrice: dec("10")},
			{Product: "Crema", Quantity: -1, UnitPrice: dec("5")},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newTestRepo()
			svc := NewService(repo, Options{})

			_, err := svc.Submit(context.Background(), SubmitInput{PatientID: "p-1", Lines: tc.lines})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if len(repo.byID) != 0 || len(repo.decs) != 0 {
				t.Fatalf("nothing may persist on invalid input: rows=%d decs=%d", len(repo.byID), len(repo.decs))
			}
		})
	}
}

func TestSubmit_StockMatchMode(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})

	_, err := svc.Submit(context.Background(), SubmitInput{
		PatientID: "p-1",
		Lines: []LineInput{
			{ProductID: "item-1", Product: "Botox", Quantity: 1, UnitPrice: dec("10")},
			{Product: "Crema", Quantity: 1, UnitPrice: dec("5")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.decs[0].ByName {
		t.Fatalf("line with producto_id must decrement by id")
	}
	if !repo.decs[1].ByName {
		t.Fatalf("line without producto_id must fall back to name matching")
	}

	// Con el modo legado forzado, todo descuenta por nombre.
	repo = newTestRepo()
	svc = NewService(repo, Options{MatchStockByName: true})
	_, err = svc.Submit(context.Background(), SubmitInput{
		PatientID: "p-1",
		Lines:     []LineInput{{ProductID: "item-1", Product: "Botox", Quantity: 1, UnitPrice: dec("10")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.decs[0].ByName {
		t.Fatalf("MatchStockByName must force name matching even with producto_id")
	}
}

func TestLineTotal_Rounding(t *testing.T) {
	// 3 × 33.33 con 15% = 99.99 − 14.9985 = 84.9915 → 84.99
	got := LineTotal(dec("33.33"), 3, dec("15"))
	if !got.Equal(dec("84.99")) {
		t.Fatalf("LineTotal = %s, want 84.99", got)
	}
}

// -------------------------
// Photos
// -------------------------

func seedSession(t *testing.T, repo *testRepo, svc *Service, patientID string) Session {
	t.Helper()
	rows, err := svc.Submit(context.Background(), SubmitInput{
		PatientID: patientID,
		Lines:     []LineInput{{Product: "Botox", Quantity: 1, UnitPrice: dec("100")}},
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return rows[0]
}

func TestAttachPhotos_LegacyBatchSplits(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})
	s := seedSession(t, repo, svc, "p-1")

	legacy := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"}
	updated, err := svc.AttachPhotos(context.Background(), s.ID, nil, nil, legacy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.BeforePhotos) != 3 || len(updated.AfterPhotos) != 2 {
		t.Fatalf("legacy batch must split 3/rest, got before=%v after=%v",
			updated.BeforePhotos, updated.AfterPhotos)
	}
	if updated.BeforePhotos[0] != "a.jpg" || updated.AfterPhotos[0] != "d.jpg" {
		t.Fatalf("legacy split order wrong: before=%v after=%v",
			updated.BeforePhotos, updated.AfterPhotos)
	}
}

func TestAttachPhotos_PartialOverwrite(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})
	s := seedSession(t, repo, svc, "p-1")

	if _, err := svc.AttachPhotos(context.Background(), s.ID,
		[]string{"b1.jpg", "b2.jpg"}, []string{"a1.jpg"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Solo "después": "antes" queda intacto.
	updated, err := svc.AttachPhotos(context.Background(), s.ID, nil, []string{"a2.jpg"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.BeforePhotos) != 2 {
		t.Fatalf("before group must survive a partial update, got %v", updated.BeforePhotos)
	}
	if len(updated.AfterPhotos) != 1 || updated.AfterPhotos[0] != "a2.jpg" {
		t.Fatalf("after group must be replaced, got %v", updated.AfterPhotos)
	}
}

func TestAttachPhotos_Limits(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})
	s := seedSession(t, repo, svc, "p-1")

	four := []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg"}
	if _, err := svc.AttachPhotos(context.Background(), s.ID, four, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("4 before photos must be rejected, got %v", err)
	}

	seven := []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg", "7.jpg"}
	if _, err := svc.AttachPhotos(context.Background(), s.ID, nil, nil, seven); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("7 legacy photos must be rejected, got %v", err)
	}

	if _, err := svc.AttachPhotos(context.Background(), s.ID, nil, nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("no photos at all must be rejected, got %v", err)
	}

	if _, err := svc.AttachPhotos(context.Background(), "no-such", []string{"x.jpg"}, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown session must be ErrNotFound, got %v", err)
	}
}

// -------------------------
// History
// -------------------------

func TestHistory_SumsRowTotals(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, Options{})

	_, err := svc.Submit(context.Background(), SubmitInput{
		PatientID: "p-1",
		Lines: []LineInput{
			{Product: "Botox", Quantity: 2, UnitPrice: dec("100"), DiscountPct: dec("10")},
			{Product: "Crema", Quantity: 1, UnitPrice: dec("20")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seedSession(t, repo, svc, "p-2")

	h, err := svc.History(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.Entries) != 2 {
		t.Fatalf("expected 2 entries for p-1, got %d", len(h.Entries))
	}
	if !h.TotalAmount.Equal(dec("200")) {
		t.Fatalf("history total = %s, want 200", h.TotalAmount)
	}

	if _, err := svc.History(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty patient id must be ErrInvalidInput, got %v", err)
	}
}
