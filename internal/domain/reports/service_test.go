package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type testRepo struct {
	rows []Row
	last Filter
}

func (r *testRepo) ListSessions(ctx context.Context, f Filter) ([]Row, error) {
	r.last = f
	return r.rows, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFinancial_TotalsAlwaysClose(t *testing.T) {
	repo := &testRepo{rows: []Row{
		{SessionID: "s1", Total: dec("80"), PaymentMethod: "Efectivo"},
		{SessionID: "s2", Total: dec("120.50"), PaymentMethod: "Tarjeta"},
		{SessionID: "s3", Total: dec("40"), PaymentMethod: "Efectivo"},
		{SessionID: "s4", Total: dec("19.50"), PaymentMethod: ""},
	}}
	svc := NewService(repo)

	report, err := svc.Financial(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.TotalGeneral.Equal(dec("260")) {
		t.Fatalf("total general = %s, want 260", report.TotalGeneral)
	}
	if got := report.TotalsByMethod["Efectivo"]; !got.Equal(dec("120")) {
		t.Fatalf("Efectivo = %s, want 120", got)
	}
	if got := report.TotalsByMethod["Tarjeta"]; !got.Equal(dec("120.50")) {
		t.Fatalf("Tarjeta = %s, want 120.50", got)
	}

	// Método vacío cae en el bucket "Unknown".
	if got := report.TotalsByMethod[UnknownMethod]; !got.Equal(dec("19.50")) {
		t.Fatalf("Unknown = %s, want 19.50", got)
	}

	sum := decimal.Zero
	for _, v := range report.TotalsByMethod {
		sum = sum.Add(v)
	}
	if !sum.Equal(report.TotalGeneral) {
		t.Fatalf("totals by method (%s) must sum to total general (%s)", sum, report.TotalGeneral)
	}
}

func TestFinancial_SameFilterSameResult(t *testing.T) {
	repo := &testRepo{rows: []Row{
		{SessionID: "s1", Total: dec("10"), PaymentMethod: "Yape"},
	}}
	svc := NewService(repo)

	first, err := svc.Financial(context.Background(), Filter{PaymentMethod: "Yape"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Financial(context.Background(), Filter{PaymentMethod: "Yape"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !first.TotalGeneral.Equal(second.TotalGeneral) || len(first.Rows) != len(second.Rows) {
		t.Fatalf("repeated query must return the same report: %v vs %v", first, second)
	}
}

func TestFinancial_PassesFilterThrough(t *testing.T) {
	repo := &testRepo{}
	svc := NewService(repo)

	from := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Financial(context.Background(), Filter{DateFrom: &from, Patient: "Garcia"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.last.DateFrom == nil || !repo.last.DateFrom.Equal(from) || repo.last.Patient != "Garcia" {
		t.Fatalf("filter not forwarded to repo: %+v", repo.last)
	}
}
