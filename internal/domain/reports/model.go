package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownMethod agrupa las filas sin método de pago en el desglose.
const UnknownMethod = "Unknown"

// Filter son los filtros conjuntivos del reporte financiero.
//
// Semántica de fechas (asimétrica, heredada y preservada a propósito):
//   - DateFrom y DateTo => rango inclusivo de fechas calendario.
//   - Solo DateFrom     => match exacto de esa fecha calendario.
type Filter struct {
	DateFrom *time.Time
	DateTo   *time.Time

	// Patient filtra por substring case-sensitive sobre "nombre apellido".
	Patient string

	// PaymentMethod filtra por igualdad exacta.
	PaymentMethod string
}

// Row es una fila del reporte: sesión + paciente + tratamiento resuelto.
// Treatment queda vacío para sesiones ad-hoc o definiciones borradas.
type Row struct {
	SessionID     string
	Patient       string
	Treatment     string
	Date          time.Time
	Total         decimal.Decimal
	DiscountPct   decimal.Decimal
	PaymentMethod string
}

// Report garantiza que TotalGeneral, TotalsByMethod y Rows salen del mismo
// conjunto filtrado: TotalGeneral == Σ TotalsByMethod == Σ Rows.Total.
type Report struct {
	Rows           []Row
	TotalGeneral   decimal.Decimal
	TotalsByMethod map[string]decimal.Decimal
}
