package repositories

import (
	"context"
	"errors"
	"fmt"

	"products/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createProductsTableSQL = `CREATE TABLE IF NOT EXISTS products (
		id          BIGINT PRIMARY KEY,
		name        TEXT,
		description TEXT,
		cost        DOUBLE PRECISION,
		qty         INTEGER
	)`

	listProductsSQL = `SELECT id, name, description, cost, qty FROM products ORDER BY id`

	getProductSQL = `SELECT id, name, description, cost, qty FROM products WHERE id = $1`

	insertProductSQL = `INSERT INTO products (id, name, description, cost, qty) VALUES ($1, $2, $3, $4, $5)`

	updateQtySQL = `UPDATE products SET qty = $2 WHERE id = $1`
)

var _ ProductRepository = (*PgxProductRepository)(nil)

// PgxProductRepository implements ProductRepository directly on a pgx pool.
type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// NewPgxProductRepository returns a PgxProductRepository that uses the given pool.
func NewPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{pool: pool}
}

// EnsureSchema creates the products table when it does not exist yet.
func (r *PgxProductRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createProductsTableSQL); err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}
	return nil
}

// ListProducts returns all products ordered by id.
func (r *PgxProductRepository) ListProducts(ctx context.Context) ([]models.ProductRecord, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	records, err := pgx.CollectRows(rows, scanProductRecord)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	if records == nil {
		records = []models.ProductRecord{}
	}
	return records, nil
}

// GetProduct returns a single product by its identifier.
func (r *PgxProductRepository) GetProduct(ctx context.Context, id int64) (models.ProductRecord, bool, error) {
	rows, err := r.pool.Query(ctx, getProductSQL, id)
	if err != nil {
		return models.ProductRecord{}, false, fmt.Errorf("getting product %d: %w", id, err)
	}

	rec, err := pgx.CollectExactlyOneRow(rows, scanProductRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ProductRecord{}, false, nil
		}
		return models.ProductRecord{}, false, fmt.Errorf("getting product %d: %w", id, err)
	}
	return rec, true, nil
}

// AddProduct inserts a product row.
func (r *PgxProductRepository) AddProduct(ctx context.Context, rec models.ProductRecord) error {
	if rec.ID == nil {
		return fmt.Errorf("adding product: record has no id")
	}
	if _, err := r.pool.Exec(ctx, insertProductSQL, *rec.ID, rec.Name, rec.Description, rec.Cost, rec.Qty); err != nil {
		return fmt.Errorf("adding product %d: %w", *rec.ID, err)
	}
	return nil
}

// UpdateQty sets the qty column of a product.
func (r *PgxProductRepository) UpdateQty(ctx context.Context, id int64, qty int) error {
	if _, err := r.pool.Exec(ctx, updateQtySQL, id, qty); err != nil {
		return fmt.Errorf("updating qty for product %d: %w", id, err)
	}
	return nil
}

func scanProductRecord(row pgx.CollectableRow) (models.ProductRecord, error) {
	var (
		rec models.ProductRecord
		id  int64
	)
	if err := row.Scan(&id, &rec.Name, &rec.Description, &rec.Cost, &rec.Qty); err != nil {
		return models.ProductRecord{}, err
	}
	rec.ID = &id
	return rec, nil
}
