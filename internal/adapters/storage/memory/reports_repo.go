package memory

import (
	"context"
	"sort"
	"strings"

	"showclinic-backend/internal/domain/reports"
	"showclinic-backend/internal/domain/sessions"
)

// ReportsRepo proyecta las sesiones en memoria con los mismos filtros que
// la consulta SQL: fechas calendario, substring de paciente y método exacto.
type ReportsRepo struct {
	sessions   *SessionsRepo
	patients   *PatientsRepo
	treatments *TreatmentsRepo
}

func NewReportsRepo(s *SessionsRepo, p *PatientsRepo, t *TreatmentsRepo) *ReportsRepo {
	return &ReportsRepo{sessions: s, patients: p, treatments: t}
}

func (r *ReportsRepo) ListSessions(ctx context.Context, f reports.Filter) ([]reports.Row, error) {
	r.sessions.mu.RLock()
	all := make([]sessions.Session, 0, len(r.sessions.byID))
	for _, s := range r.sessions.byID {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].RecordedAt.Equal(all[j].RecordedAt) {
			return all[i].RecordedAt.After(all[j].RecordedAt)
		}
		return r.sessions.seq[all[i].ID] > r.sessions.seq[all[j].ID]
	})
	r.sessions.mu.RUnlock()

	out := make([]reports.Row, 0)
	for _, s := range all {
		day := s.RecordedAt.Format("2006-01-02")
		switch {
		case f.DateFrom != nil && f.DateTo != nil:
			if day < f.DateFrom.Format("2006-01-02") || day > f.DateTo.Format("2006-01-02") {
				continue
			}
		case f.DateFrom != nil:
			if day != f.DateFrom.Format("2006-01-02") {
				continue
			}
		}

		name := r.patientName(s.PatientID)
		if f.Patient != "" && !strings.Contains(name, f.Patient) {
			continue
		}
		if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
			continue
		}

		treatment := ""
		if s.TreatmentID != nil {
			treatment = r.treatments.name(*s.TreatmentID)
		}

		out = append(out, reports.Row{
			SessionID:     s.ID,
			Patient:       name,
			Treatment:     treatment,
			Date:          s.RecordedAt,
			Total:         s.Total,
			DiscountPct:   s.DiscountPct,
			PaymentMethod: s.PaymentMethod,
		})
	}
	return out, nil
}

func (r *ReportsRepo) patientName(id string) string {
	r.patients.mu.RLock()
	defer r.patients.mu.RUnlock()

	p, ok := r.patients.byID[id]
	if !ok {
		return ""
	}
	return p.FullName()
}
