package postgres

import (
	"context"
	"database/sql"
	"strings"

	"showclinic-backend/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

func (r *TreatmentsRepo) Create(ctx context.Context, t treatments.Treatment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tratamientos (id, nombre, descripcion, created_at)
		VALUES ($1,$2,$3,$4)
	`, t.ID, t.Name, t.Description, t.CreatedAt)
	return err
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return treatments.Treatment{}, treatments.ErrNotFound
	}

	var t treatments.Treatment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, nombre, descripcion, created_at
		FROM tratamientos
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return treatments.Treatment{}, treatments.ErrNotFound
		}
		return treatments.Treatment{}, err
	}
	return t, nil
}

func (r *TreatmentsRepo) List(ctx context.Context) ([]treatments.Treatment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, descripcion, created_at
		FROM tratamientos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.Treatment, 0)
	for rows.Next() {
		var t treatments.Treatment
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TreatmentsRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tratamientos WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
