package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var (
	ErrNotFound = errors.New("not found")
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen y aplica los agregados de
// columna posteriores. No hay formato de migración versionado: solo
// chequeos aditivos al arranque, como el sistema original.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS patients (
			id TEXT PRIMARY KEY,
			dni TEXT NOT NULL,
			nombre TEXT NOT NULL,
			apellido TEXT NOT NULL,
			edad INT NOT NULL DEFAULT 0,
			sexo TEXT NOT NULL DEFAULT '',
			direccion TEXT NOT NULL DEFAULT '',
			ocupacion TEXT NOT NULL DEFAULT '',
			fecha_nacimiento DATE,
			ciudad_nacimiento TEXT NOT NULL DEFAULT '',
			ciudad_residencia TEXT NOT NULL DEFAULT '',
			alergias TEXT NOT NULL DEFAULT '',
			enfermedad TEXT NOT NULL DEFAULT '',
			correo TEXT NOT NULL DEFAULT '',
			celular TEXT NOT NULL DEFAULT '',
			cirugia_estetica TEXT NOT NULL DEFAULT '',
			drogas TEXT NOT NULL DEFAULT '',
			tabaco TEXT NOT NULL DEFAULT '',
			alcohol TEXT NOT NULL DEFAULT '',
			referencia TEXT NOT NULL DEFAULT '',
			fecha_registro TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tratamientos (
			id TEXT PRIMARY KEY,
			nombre TEXT NOT NULL,
			descripcion TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventario (
			id TEXT PRIMARY KEY,
			producto TEXT NOT NULL,
			marca TEXT NOT NULL DEFAULT '',
			sku TEXT NOT NULL DEFAULT '',
			proveedor TEXT NOT NULL DEFAULT '',
			contenido TEXT NOT NULL DEFAULT '',
			precio NUMERIC(12,2) NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			fecha_vencimiento DATE,
			ultima_actualizacion TIMESTAMPTZ NOT NULL,
			actualizado_por TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inventario_documentos (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL REFERENCES inventario(id) ON DELETE CASCADE,
			archivo TEXT NOT NULL,
			subido_por TEXT NOT NULL DEFAULT '',
			subido_en TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS especialistas (
			id TEXT PRIMARY KEY,
			nombre TEXT NOT NULL,
			especialidad TEXT NOT NULL DEFAULT '',
			telefono TEXT NOT NULL DEFAULT '',
			correo TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS tratamientos_realizados (
			id TEXT PRIMARY KEY,
			paciente_id TEXT NOT NULL REFERENCES patients(id),
			tratamiento_id TEXT REFERENCES tratamientos(id) ON DELETE SET NULL,
			productos TEXT NOT NULL,
			cantidad_total INT NOT NULL,
			precio_total NUMERIC(12,2) NOT NULL,
			descuento NUMERIC(5,2) NOT NULL DEFAULT 0,
			pago_metodo TEXT NOT NULL DEFAULT '',
			sesion INT NOT NULL DEFAULT 1,
			tipo_atencion TEXT NOT NULL DEFAULT '',
			especialista TEXT NOT NULL DEFAULT '',
			foto_izquierda TEXT NOT NULL DEFAULT '',
			foto_frontal TEXT NOT NULL DEFAULT '',
			foto_derecha TEXT NOT NULL DEFAULT '',
			fecha TIMESTAMPTZ NOT NULL
		)`,

		// Columnas agregadas después del esquema inicial (layout antes/después
		// y puntero al PDF vigente del inventario).
		`ALTER TABLE tratamientos_realizados ADD COLUMN IF NOT EXISTS fotos_antes TEXT`,
		`ALTER TABLE tratamientos_realizados ADD COLUMN IF NOT EXISTS fotos_despues TEXT`,
		`ALTER TABLE inventario ADD COLUMN IF NOT EXISTS documento_pdf TEXT NOT NULL DEFAULT ''`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
