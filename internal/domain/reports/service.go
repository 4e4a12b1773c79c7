package reports

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Financial arma el reporte completo desde una sola lectura filtrada.
// No hay caché: cada llamada recalcula los totales sobre las mismas filas,
// así el total general y el desglose por método siempre cierran entre sí.
func (s *Service) Financial(ctx context.Context, f Filter) (Report, error) {
	rows, err := s.repo.ListSessions(ctx, f)
	if err != nil {
		return Report{}, err
	}

	total := decimal.Zero
	byMethod := make(map[string]decimal.Decimal)

	for _, row := range rows {
		total = total.Add(row.Total)

		method := strings.TrimSpace(row.PaymentMethod)
		if method == "" {
			method = UnknownMethod
		}
		byMethod[method] = byMethod[method].Add(row.Total)
	}

	return Report{
		Rows:           rows,
		TotalGeneral:   total,
		TotalsByMethod: byMethod,
	}, nil
}
