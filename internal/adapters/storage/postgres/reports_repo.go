package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"showclinic-backend/internal/domain/reports"
)

type ReportsRepo struct {
	db *sql.DB
}

func NewReportsRepo(db *sql.DB) *ReportsRepo {
	return &ReportsRepo{db: db}
}

// ListSessions arma el WHERE dinámicamente según los filtros presentes.
// Con ambas fechas filtra por rango calendario inclusivo; con solo la
// fecha inicial filtra por ese día exacto.
func (r *ReportsRepo) ListSessions(ctx context.Context, f reports.Filter) ([]reports.Row, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			tr.id,
			p.nombre || ' ' || p.apellido AS paciente,
			COALESCE(t.nombre, '') AS tratamiento,
			tr.fecha, tr.precio_total, tr.descuento, tr.pago_metodo
		FROM tratamientos_realizados tr
		JOIN patients p ON p.id = tr.paciente_id
		LEFT JOIN tratamientos t ON t.id = tr.tratamiento_id
	`)

	conds := []string{}
	args := []any{}

	switch {
	case f.DateFrom != nil && f.DateTo != nil:
		args = append(args, f.DateFrom.Format("2006-01-02"))
		from := len(args)
		args = append(args, f.DateTo.Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf("tr.fecha::date BETWEEN $%d AND $%d", from, len(args)))
	case f.DateFrom != nil:
		args = append(args, f.DateFrom.Format("2006-01-02"))
		conds = append(conds, fmt.Sprintf("tr.fecha::date = $%d", len(args)))
	}

	if f.Patient != "" {
		args = append(args, "%"+f.Patient+"%")
		conds = append(conds, fmt.Sprintf("p.nombre || ' ' || p.apellido LIKE $%d", len(args)))
	}
	if f.PaymentMethod != "" {
		args = append(args, f.PaymentMethod)
		conds = append(conds, fmt.Sprintf("tr.pago_metodo = $%d", len(args)))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY tr.fecha DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reports.Row, 0)
	for rows.Next() {
		var row reports.Row
		if err := rows.Scan(
			&row.SessionID, &row.Patient, &row.Treatment,
			&row.Date, &row.Total, &row.DiscountPct, &row.PaymentMethod,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
