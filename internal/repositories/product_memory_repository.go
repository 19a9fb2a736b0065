package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"products/internal/models"
)

var _ ProductRepository = (*MemoryProductRepository)(nil)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[int64]models.ProductRecord
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[int64]models.ProductRecord),
	}
}

// ListProducts returns all products ordered by id.
func (r *MemoryProductRepository) ListProducts(_ context.Context) ([]models.ProductRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, cmp.Compare[int64])

	productList := make([]models.ProductRecord, 0, len(ids))
	for _, id := range ids {
		productList = append(productList, r.products[id].Clone())
	}
	return productList, nil
}

// GetProduct returns a product by its ID.
func (r *MemoryProductRepository) GetProduct(_ context.Context, id int64) (models.ProductRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.products[id]
	if !ok {
		return models.ProductRecord{}, false, nil
	}
	return rec.Clone(), true, nil
}

// AddProduct stores a new product. The id must be present and unused.
func (r *MemoryProductRepository) AddProduct(_ context.Context, rec models.ProductRecord) error {
	if rec.ID == nil {
		return fmt.Errorf("product record has no id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[*rec.ID]; exists {
		return fmt.Errorf("product with ID %d already exists", *rec.ID)
	}
	r.products[*rec.ID] = rec.Clone()
	return nil
}

// UpdateQty sets the stored quantity of a product. Unknown ids are ignored.
func (r *MemoryProductRepository) UpdateQty(_ context.Context, id int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.products[id]
	if !ok {
		return nil
	}
	rec.Qty = &qty
	r.products[id] = rec
	return nil
}
