package postgres

import (
	"context"
	"database/sql"

	"showclinic-backend/internal/domain/specialists"
)

type SpecialistsRepo struct {
	db *sql.DB
}

func NewSpecialistsRepo(db *sql.DB) *SpecialistsRepo {
	return &SpecialistsRepo{db: db}
}

func (r *SpecialistsRepo) Create(ctx context.Context, sp specialists.Specialist) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO especialistas (id, nombre, especialidad, telefono, correo)
		VALUES ($1,$2,$3,$4,$5)
	`, sp.ID, sp.Name, sp.Specialty, sp.Phone, sp.Email)
	return err
}

func (r *SpecialistsRepo) List(ctx context.Context) ([]specialists.Specialist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, especialidad, telefono, correo
		FROM especialistas
		ORDER BY nombre ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]specialists.Specialist, 0)
	for rows.Next() {
		var sp specialists.Specialist
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Specialty, &sp.Phone, &sp.Email); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (r *SpecialistsRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM especialistas WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
