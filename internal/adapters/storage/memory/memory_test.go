package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"showclinic-backend/internal/domain/inventory"
	"showclinic-backend/internal/domain/patients"
	"showclinic-backend/internal/domain/reports"
	"showclinic-backend/internal/domain/sessions"
	"showclinic-backend/internal/domain/treatments"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func seedStores(t *testing.T) (*SessionsRepo, *PatientsRepo, *TreatmentsRepo, *InventoryRepo) {
	t.Helper()
	ctx := context.Background()

	mPatients := NewPatientsRepo()
	mTreatments := NewTreatmentsRepo()
	mInventory := NewInventoryRepo()
	mSessions := NewSessionsRepo(mInventory, mTreatments)

	if err := mPatients.Create(ctx, patients.Patient{
		ID: "p-1", DNI: "11111111", FirstName: "Ana", LastName: "Garcia",
		RegisteredAt: day(2026, 1, 1),
	}); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	return mSessions, mPatients, mTreatments, mInventory
}

func TestSessionsRepo_CreateBatchDecrementsStock(t *testing.T) {
	ctx := context.Background()
	mSessions, _, _, mInventory := seedStores(t)

	now := time.Now()
	if err := mInventory.Create(ctx, inventory.Item{
		ID: "item-1", Product: "Botox", Stock: 3,
		LastUpdatedAt: now, CreatedAt: now,
	}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	err := mSessions.CreateBatch(ctx,
		[]sessions.Session{{ID: "s-1", PatientID: "p-1", Total: dec("100"), RecordedAt: now}},
		[]sessions.StockDecrement{
			{ProductID: "item-1", Quantity: 2},
			{Product: "Botox", Quantity: 5, ByName: true},
			{Product: "NoExiste", Quantity: 1, ByName: true}, // sin match: no-op
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	it, err := mInventory.GetByID(ctx, "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3 − 2 − 5: sin piso, el stock queda negativo.
	if it.Stock != -4 {
		t.Fatalf("stock = %d, want -4", it.Stock)
	}
}

func TestSessionsRepo_HistoryOrderAndTreatmentName(t *testing.T) {
	ctx := context.Background()
	mSessions, _, mTreatments, _ := seedStores(t)

	if err := mTreatments.Create(ctx, treatmentFixture("t-1", "Limpieza facial")); err != nil {
		t.Fatalf("seed treatment: %v", err)
	}

	tid := "t-1"
	shared := day(2026, 2, 1)
	older := day(2026, 1, 15)
	err := mSessions.CreateBatch(ctx, []sessions.Session{
		{ID: "s-old", PatientID: "p-1", RecordedAt: older},
		{ID: "s-a", PatientID: "p-1", TreatmentID: &tid, RecordedAt: shared},
		{ID: "s-b", PatientID: "p-1", RecordedAt: shared},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := mSessions.HistoryByPatient(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Fecha desc, y a igual fecha la última insertada primero.
	if entries[0].ID != "s-b" || entries[1].ID != "s-a" || entries[2].ID != "s-old" {
		t.Fatalf("wrong order: %s, %s, %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
	if entries[1].TreatmentName != "Limpieza facial" {
		t.Fatalf("treatment name = %q", entries[1].TreatmentName)
	}
	if entries[0].TreatmentName != "" {
		t.Fatalf("ad-hoc session must have no treatment name, got %q", entries[0].TreatmentName)
	}
}

func TestReportsRepo_DateFilterSemantics(t *testing.T) {
	ctx := context.Background()
	mSessions, mPatients, mTreatments, _ := seedStores(t)
	repo := NewReportsRepo(mSessions, mPatients, mTreatments)

	err := mSessions.CreateBatch(ctx, []sessions.Session{
		{ID: "s-10", PatientID: "p-1", Total: dec("10"), PaymentMethod: "Efectivo", RecordedAt: day(2026, 3, 10)},
		{ID: "s-11", PatientID: "p-1", Total: dec("20"), PaymentMethod: "Tarjeta", RecordedAt: day(2026, 3, 11)},
		{ID: "s-12", PatientID: "p-1", Total: dec("30"), PaymentMethod: "Efectivo", RecordedAt: day(2026, 3, 12)},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := day(2026, 3, 10)
	to := day(2026, 3, 11)

	// Ambas fechas: rango calendario inclusivo.
	rows, err := repo.ListSessions(ctx, reports.Filter{DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("range filter: expected 2 rows, got %d", len(rows))
	}

	// Solo la inicial: match exacto de ese día, no "desde".
	rows, err = repo.ListSessions(ctx, reports.Filter{DateFrom: &from})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].SessionID != "s-10" {
		t.Fatalf("exact-day filter: expected only s-10, got %+v", rows)
	}
}

func TestReportsRepo_PatientAndMethodFilters(t *testing.T) {
	ctx := context.Background()
	mSessions, mPatients, mTreatments, _ := seedStores(t)
	repo := NewReportsRepo(mSessions, mPatients, mTreatments)

	if err := mPatients.Create(ctx, patients.Patient{
		ID: "p-2", DNI: "22222222", FirstName: "Luis", LastName: "Perez",
		RegisteredAt: day(2026, 1, 2),
	}); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	err := mSessions.CreateBatch(ctx, []sessions.Session{
		{ID: "s-1", PatientID: "p-1", Total: dec("80"), PaymentMethod: "Efectivo", RecordedAt: day(2026, 3, 1)},
		{ID: "s-2", PatientID: "p-2", Total: dec("50"), PaymentMethod: "Efectivo", RecordedAt: day(2026, 3, 2)},
		{ID: "s-3", PatientID: "p-1", Total: dec("70"), PaymentMethod: "Tarjeta", RecordedAt: day(2026, 3, 3)},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := repo.ListSessions(ctx, reports.Filter{Patient: "Garcia", PaymentMethod: "Efectivo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].SessionID != "s-1" {
		t.Fatalf("conjunctive filters: expected only s-1, got %+v", rows)
	}
	if rows[0].Patient != "Ana Garcia" {
		t.Fatalf("patient name = %q", rows[0].Patient)
	}
}

func TestInventoryRepo_DeleteAndBrands(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepo()
	now := time.Now()

	for _, it := range []inventory.Item{
		{ID: "i-1", Product: "Botox", Brand: "Allergan", LastUpdatedAt: now, CreatedAt: now},
		{ID: "i-2", Product: "Crema", Brand: "Cerave", LastUpdatedAt: now, CreatedAt: now},
		{ID: "i-3", Product: "Gasa", Brand: "Allergan", LastUpdatedAt: now, CreatedAt: now},
		{ID: "i-4", Product: "Alcohol", LastUpdatedAt: now, CreatedAt: now},
	} {
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("seed item: %v", err)
		}
	}

	brands, err := repo.Brands(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(brands) != 2 || brands[0] != "Allergan" || brands[1] != "Cerave" {
		t.Fatalf("brands = %v", brands)
	}

	n, err := repo.Delete(ctx, "i-2")
	if err != nil || n != 1 {
		t.Fatalf("delete existing: n=%d err=%v", n, err)
	}
	n, err = repo.Delete(ctx, "no-such")
	if err != nil || n != 0 {
		t.Fatalf("delete missing must report 0 without error: n=%d err=%v", n, err)
	}
}

func treatmentFixture(id, name string) treatments.Treatment {
	return treatments.Treatment{
		ID:          id,
		Name:        name,
		Description: "fixture",
		CreatedAt:   time.Now(),
	}
}
