package repositories

import (
	"context"

	"products/internal/models"
)

// ProductRepository defines the interface for product data access.
// Records are stored and returned raw; building Product values is left to callers.
type ProductRepository interface {
	// ListProducts returns every stored record ordered by id.
	ListProducts(ctx context.Context) ([]models.ProductRecord, error)
	// GetProduct returns the record for id. found is false when no record exists.
	GetProduct(ctx context.Context, id int64) (rec models.ProductRecord, found bool, err error)
	AddProduct(ctx context.Context, rec models.ProductRecord) error
	UpdateQty(ctx context.Context, id int64, qty int) error
}
