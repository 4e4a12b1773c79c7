package reports

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.With(middleware.Require(auth.CapReportsRead)).Get("/reports/financial", financialReportHandler(svc))
}

type rowResponse struct {
	ID            string          `json:"id"`
	Paciente      string          `json:"paciente"`
	Tratamiento   string          `json:"tratamiento"`
	Fecha         time.Time       `json:"fecha"`
	PrecioTotal   decimal.Decimal `json:"precio_total"`
	Descuento     decimal.Decimal `json:"descuento"`
	PagoMetodo    string          `json:"pagoMetodo"`
}

type reportResponse struct {
	Rows           []rowResponse              `json:"rows"`
	TotalGeneral   decimal.Decimal            `json:"total_general"`
	TotalsByMethod map[string]decimal.Decimal `json:"totals_by_method"`
}

// financialReportHandler godoc
// @Summary Reporte financiero filtrado
// @Description Filtros conjuntivos: date_from+date_to = rango inclusivo; date_from solo = fecha exacta; patient = substring sobre "nombre apellido"; payment_method = igualdad. total_general siempre iguala la suma del desglose por método.
// @Tags reports
// @Produce json
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param patient query string false "substring case-sensitive"
// @Param payment_method query string false "match exacto"
// @Success 200 {object} reportResponse
// @Failure 400 {object} errorResponse "fecha mal formada"
// @Router /reports/financial [get]
func financialReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDate(q.Get("date_from"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_from must be YYYY-MM-DD")
			return
		}
		to, err := parseDate(q.Get("date_to"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date_to must be YYYY-MM-DD")
			return
		}

		report, err := svc.Financial(r.Context(), Filter{
			DateFrom:      from,
			DateTo:        to,
			Patient:       q.Get("patient"),
			PaymentMethod: strings.TrimSpace(q.Get("payment_method")),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al obtener reporte financiero")
			return
		}

		rows := make([]rowResponse, 0, len(report.Rows))
		for _, row := range report.Rows {
			rows = append(rows, rowResponse{
				ID:          row.SessionID,
				Paciente:    row.Patient,
				Tratamiento: row.Treatment,
				Fecha:       row.Date,
				PrecioTotal: row.Total,
				Descuento:   row.DiscountPct,
				PagoMetodo:  row.PaymentMethod,
			})
		}

		writeJSON(w, http.StatusOK, reportResponse{
			Rows:           rows,
			TotalGeneral:   report.TotalGeneral,
			TotalsByMethod: report.TotalsByMethod,
		})
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
