package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"showclinic-backend/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

const patientColumns = `
	id, dni, nombre, apellido, edad, sexo,
	direccion, ocupacion, fecha_nacimiento,
	ciudad_nacimiento, ciudad_residencia,
	alergias, enfermedad, correo, celular,
	cirugia_estetica, drogas, tabaco, alcohol,
	referencia, fecha_registro`

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (
			id, dni, nombre, apellido, edad, sexo,
			direccion, ocupacion, fecha_nacimiento,
			ciudad_nacimiento, ciudad_residencia,
			alergias, enfermedad, correo, celular,
			cirugia_estetica, drogas, tabaco, alcohol,
			referencia, fecha_registro
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		p.ID, p.DNI, p.FirstName, p.LastName, p.Age, p.Sex,
		p.Address, p.Occupation, toNullDate(p.BirthDate),
		p.BirthCity, p.ResidCity,
		p.Allergies, p.Conditions, p.Email, p.Phone,
		p.CosmeticSurgery, p.Drugs, p.Tobacco, p.Alcohol,
		p.ReferralSource, p.RegisteredAt,
	)
	return err
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET
			dni = $2, nombre = $3, apellido = $4, edad = $5, sexo = $6,
			direccion = $7, ocupacion = $8, fecha_nacimiento = $9,
			ciudad_nacimiento = $10, ciudad_residencia = $11,
			alergias = $12, enfermedad = $13, correo = $14, celular = $15,
			cirugia_estetica = $16, drogas = $17, tabaco = $18, alcohol = $19,
			referencia = $20
		WHERE id = $1
	`,
		p.ID, p.DNI, p.FirstName, p.LastName, p.Age, p.Sex,
		p.Address, p.Occupation, toNullDate(p.BirthDate),
		p.BirthCity, p.ResidCity,
		p.Allergies, p.Conditions, p.Email, p.Phone,
		p.CosmeticSurgery, p.Drugs, p.Tobacco, p.Alcohol,
		p.ReferralSource,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return patients.Patient{}, patients.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)

	p, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context, search string) ([]patients.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
	`
	args := []any{}

	if search != "" {
		query += ` WHERE nombre LIKE $1 OR apellido LIKE $1 OR dni LIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY fecha_registro DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (patients.Patient, error) {
	var p patients.Patient
	var bd sql.NullTime
	if err := row.Scan(
		&p.ID, &p.DNI, &p.FirstName, &p.LastName, &p.Age, &p.Sex,
		&p.Address, &p.Occupation, &bd,
		&p.BirthCity, &p.ResidCity,
		&p.Allergies, &p.Conditions, &p.Email, &p.Phone,
		&p.CosmeticSurgery, &p.Drugs, &p.Tobacco, &p.Alcohol,
		&p.ReferralSource, &p.RegisteredAt,
	); err != nil {
		return patients.Patient{}, err
	}

	if bd.Valid {
		t := bd.Time
		p.BirthDate = &t
	}
	return p, nil
}

// fecha_nacimiento es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
