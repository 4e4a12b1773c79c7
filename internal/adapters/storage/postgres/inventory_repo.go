package postgres

import (
	"context"
	"database/sql"
	"strings"

	"showclinic-backend/internal/domain/inventory"
)

type InventoryRepo struct {
	db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const itemColumns = `
	id, producto, marca, sku, proveedor, contenido,
	precio, stock, fecha_vencimiento, documento_pdf,
	ultima_actualizacion, actualizado_por, created_at`

func (r *InventoryRepo) Create(ctx context.Context, it inventory.Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventario (
			id, producto, marca, sku, proveedor, contenido,
			precio, stock, fecha_vencimiento, documento_pdf,
			ultima_actualizacion, actualizado_por, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		it.ID, it.Product, it.Brand, it.SKU, it.Supplier, it.Content,
		it.UnitPrice, it.Stock, toNullDate(it.ExpirationDate), it.CurrentDocument,
		it.LastUpdatedAt, it.LastUpdatedBy, it.CreatedAt,
	)
	return err
}

func (r *InventoryRepo) Update(ctx context.Context, it inventory.Item) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventario
		SET
			producto = $2, marca = $3, sku = $4, proveedor = $5, contenido = $6,
			precio = $7, stock = $8, fecha_vencimiento = $9,
			ultima_actualizacion = $10, actualizado_por = $11
		WHERE id = $1
	`,
		it.ID, it.Product, it.Brand, it.SKU, it.Supplier, it.Content,
		it.UnitPrice, it.Stock, toNullDate(it.ExpirationDate),
		it.LastUpdatedAt, it.LastUpdatedBy,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return inventory.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (inventory.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return inventory.Item{}, inventory.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventario
		WHERE id = $1
	`, id)

	it, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return inventory.Item{}, inventory.ErrNotFound
		}
		return inventory.Item{}, err
	}
	return it, nil
}

func (r *InventoryRepo) List(ctx context.Context) ([]inventory.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM inventario
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) Brands(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT marca
		FROM inventario
		WHERE marca <> ''
		ORDER BY marca ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventario WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AttachDocument inserta en el historial y actualiza el puntero vigente
// dentro de la misma transacción: ambas escrituras o ninguna.
func (r *InventoryRepo) AttachDocument(ctx context.Context, doc inventory.Document) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO inventario_documentos (id, item_id, archivo, subido_por, subido_en)
		VALUES ($1,$2,$3,$4,$5)
	`, doc.ID, doc.ItemID, doc.Filename, doc.UploadedBy, doc.UploadedAt); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE inventario
		SET documento_pdf = $2, ultima_actualizacion = $3, actualizado_por = $4
		WHERE id = $1
	`, doc.ItemID, doc.Filename, doc.UploadedAt, doc.UploadedBy)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return inventory.ErrNotFound
	}

	return tx.Commit()
}

func (r *InventoryRepo) ListDocuments(ctx context.Context, itemID string) ([]inventory.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, archivo, subido_por, subido_en
		FROM inventario_documentos
		WHERE item_id = $1
		ORDER BY subido_en DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]inventory.Document, 0)
	for rows.Next() {
		var d inventory.Document
		if err := rows.Scan(&d.ID, &d.ItemID, &d.Filename, &d.UploadedBy, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanItem(row rowScanner) (inventory.Item, error) {
	var it inventory.Item
	var exp sql.NullTime
	if err := row.Scan(
		&it.ID, &it.Product, &it.Brand, &it.SKU, &it.Supplier, &it.Content,
		&it.UnitPrice, &it.Stock, &exp, &it.CurrentDocument,
		&it.LastUpdatedAt, &it.LastUpdatedBy, &it.CreatedAt,
	); err != nil {
		return inventory.Item{}, err
	}

	if exp.Valid {
		t := exp.Time
		it.ExpirationDate = &t
	}
	return it, nil
}
