package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"showclinic-backend/internal/domain/sessions"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

const sessionColumns = `
	id, paciente_id, tratamiento_id, productos, cantidad_total,
	precio_total, descuento, pago_metodo, sesion, tipo_atencion,
	especialista, fotos_antes, fotos_despues,
	foto_izquierda, foto_frontal, foto_derecha, fecha`

// CreateBatch inserta todas las filas del envío y aplica los descuentos
// de stock dentro de una sola transacción. Un descuento sobre un producto
// inexistente no es error: simplemente no afecta filas.
func (r *SessionsRepo) CreateBatch(ctx context.Context, rows []sessions.Session, decs []sessions.StockDecrement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range rows {
		items, err := json.Marshal(s.Items)
		if err != nil {
			return fmt.Errorf("serializar productos: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tratamientos_realizados (
				id, paciente_id, tratamiento_id, productos, cantidad_total,
				precio_total, descuento, pago_metodo, sesion, tipo_atencion,
				especialista, fotos_antes, fotos_despues,
				foto_izquierda, foto_frontal, foto_derecha, fecha
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		`,
			s.ID, s.PatientID, s.TreatmentID, string(items), s.TotalQuantity,
			s.Total, s.DiscountPct, s.PaymentMethod, s.SessionNumber, s.AttentionType,
			s.Specialist, marshalPhotos(s.BeforePhotos), marshalPhotos(s.AfterPhotos),
			s.PhotoLeft, s.PhotoFront, s.PhotoRight, s.RecordedAt,
		); err != nil {
			return err
		}
	}

	for _, d := range decs {
		var err error
		if d.ByName {
			_, err = tx.ExecContext(ctx,
				`UPDATE inventario SET stock = stock - $1 WHERE producto = $2`,
				d.Quantity, d.Product)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE inventario SET stock = stock - $1 WHERE id = $2`,
				d.Quantity, d.ProductID)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SessionsRepo) GetByID(ctx context.Context, id string) (sessions.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return sessions.Session{}, sessions.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM tratamientos_realizados
		WHERE id = $1
	`, id)

	s, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return sessions.Session{}, sessions.ErrNotFound
		}
		return sessions.Session{}, err
	}
	return s, nil
}

// UpdatePhotos sobreescribe solo los grupos con slots provistos.
func (r *SessionsRepo) UpdatePhotos(ctx context.Context, id string, u sessions.PhotoUpdate) error {
	var sb strings.Builder
	sb.WriteString(`UPDATE tratamientos_realizados SET `)
	args := []any{}
	sets := []string{}

	if len(u.Before) > 0 {
		args = append(args, marshalPhotos(u.Before))
		sets = append(sets, fmt.Sprintf("fotos_antes = $%d", len(args)))
	}
	if len(u.After) > 0 {
		args = append(args, marshalPhotos(u.After))
		sets = append(sets, fmt.Sprintf("fotos_despues = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	sb.WriteString(strings.Join(sets, ", "))
	args = append(args, id)
	sb.WriteString(fmt.Sprintf(" WHERE id = $%d", len(args)))

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sessions.ErrNotFound
	}
	return nil
}

func (r *SessionsRepo) HistoryByPatient(ctx context.Context, patientID string) ([]sessions.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			tr.id, tr.paciente_id, tr.tratamiento_id, tr.productos, tr.cantidad_total,
			tr.precio_total, tr.descuento, tr.pago_metodo, tr.sesion, tr.tipo_atencion,
			tr.especialista, tr.fotos_antes, tr.fotos_despues,
			tr.foto_izquierda, tr.foto_frontal, tr.foto_derecha, tr.fecha,
			COALESCE(t.nombre, '') AS tratamiento
		FROM tratamientos_realizados tr
		LEFT JOIN tratamientos t ON t.id = tr.tratamiento_id
		WHERE tr.paciente_id = $1
		ORDER BY tr.fecha DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sessions.HistoryEntry, 0)
	for rows.Next() {
		var e sessions.HistoryEntry
		var tid, before, after sql.NullString
		var items string
		if err := rows.Scan(
			&e.ID, &e.PatientID, &tid, &items, &e.TotalQuantity,
			&e.Total, &e.DiscountPct, &e.PaymentMethod, &e.SessionNumber, &e.AttentionType,
			&e.Specialist, &before, &after,
			&e.PhotoLeft, &e.PhotoFront, &e.PhotoRight, &e.RecordedAt,
			&e.TreatmentName,
		); err != nil {
			return nil, err
		}
		fillSession(&e.Session, tid, items, before, after)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (sessions.Session, error) {
	var s sessions.Session
	var tid, before, after sql.NullString
	var items string
	if err := row.Scan(
		&s.ID, &s.PatientID, &tid, &items, &s.TotalQuantity,
		&s.Total, &s.DiscountPct, &s.PaymentMethod, &s.SessionNumber, &s.AttentionType,
		&s.Specialist, &before, &after,
		&s.PhotoLeft, &s.PhotoFront, &s.PhotoRight, &s.RecordedAt,
	); err != nil {
		return sessions.Session{}, err
	}
	fillSession(&s, tid, items, before, after)
	return s, nil
}

func fillSession(s *sessions.Session, tid sql.NullString, items string, before, after sql.NullString) {
	if tid.Valid {
		v := tid.String
		s.TreatmentID = &v
	}
	// Filas anteriores al snapshot de líneas pueden tener productos vacío
	// o malformado; se tolera y queda sin líneas.
	if items != "" {
		_ = json.Unmarshal([]byte(items), &s.Items)
	}
	s.BeforePhotos = unmarshalPhotos(before)
	s.AfterPhotos = unmarshalPhotos(after)
}

func marshalPhotos(names []string) sql.NullString {
	if len(names) == 0 {
		return sql.NullString{Valid: false}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func unmarshalPhotos(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil
	}
	return out
}
