package repositories

import (
	"context"
	"errors"
	"fmt"

	"products/internal/models"

	"gorm.io/gorm"
)

var _ ProductRepository = (*GORMProductRepository)(nil)

// productRow is the GORM model for the products table. Columns other than the
// key are nullable so that absent fields survive a round trip.
type productRow struct {
	ID          int64 `gorm:"primaryKey;autoIncrement:false"`
	Name        *string
	Description *string
	Cost        *float64
	Qty         *int
}

func (productRow) TableName() string { return "products" }

func (row productRow) record() models.ProductRecord {
	id := row.ID
	return models.ProductRecord{
		ID:          &id,
		Name:        row.Name,
		Description: row.Description,
		Cost:        row.Cost,
		Qty:         row.Qty,
	}
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Migrate creates or updates the products table.
func (r *GORMProductRepository) Migrate() error {
	if err := r.db.AutoMigrate(&productRow{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// ListProducts retrieves all products from the database ordered by id.
func (r *GORMProductRepository) ListProducts(ctx context.Context) ([]models.ProductRecord, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	records := make([]models.ProductRecord, len(rows))
	for i, row := range rows {
		records[i] = row.record()
	}
	return records, nil
}

// GetProduct retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetProduct(ctx context.Context, id int64) (models.ProductRecord, bool, error) {
	var row productRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProductRecord{}, false, nil
		}
		return models.ProductRecord{}, false, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return row.record(), true, nil
}

// AddProduct inserts a new product into the database.
func (r *GORMProductRepository) AddProduct(ctx context.Context, rec models.ProductRecord) error {
	if rec.ID == nil {
		return fmt.Errorf("failed to add product: record has no id")
	}
	row := productRow{
		ID:          *rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Cost:        rec.Cost,
		Qty:         rec.Qty,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to add product: %w", err)
	}
	return nil
}

// UpdateQty sets the qty column of a product. Zero matched rows is not an error.
func (r *GORMProductRepository) UpdateQty(ctx context.Context, id int64, qty int) error {
	res := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", id).Update("qty", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update qty for product %d: %w", id, res.Error)
	}
	return nil
}
