package models

// Product represents one catalog item in memory.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Qty         int     `json:"qty"`
}

// NewProduct creates a Product from its five fields. Nothing is validated here;
// the quantity invariant is only enforced when a quantity is updated.
func NewProduct(id int64, name, description string, cost float64, qty int) Product {
	return Product{
		ID:          id,
		Name:        name,
		Description: description,
		Cost:        cost,
		Qty:         qty,
	}
}

// Load builds a Product from a raw record. Absent fields fall back to their
// zero defaults: id 0, empty name and description, cost 0.0 and qty 0.
func Load(rec ProductRecord) Product {
	var p Product
	if rec.ID != nil {
		p.ID = *rec.ID
	}
	if rec.Name != nil {
		p.Name = *rec.Name
	}
	if rec.Description != nil {
		p.Description = *rec.Description
	}
	if rec.Cost != nil {
		p.Cost = *rec.Cost
	}
	if rec.Qty != nil {
		p.Qty = *rec.Qty
	}
	return p
}
