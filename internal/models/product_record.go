package models

// ProductRecord is a raw product row as it travels to and from the store.
// A nil field means the key is absent.
type ProductRecord struct {
	ID          *int64   `json:"id" validate:"required"`
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Cost        *float64 `json:"cost" validate:"required"`
	Qty         *int     `json:"qty" validate:"required"`
}

// RecordOf returns a fully populated record holding the fields of p.
func RecordOf(p Product) ProductRecord {
	return ProductRecord{
		ID:          &p.ID,
		Name:        &p.Name,
		Description: &p.Description,
		Cost:        &p.Cost,
		Qty:         &p.Qty,
	}
}

// Clone returns a deep copy of the record, so the copy shares no storage with r.
func (r ProductRecord) Clone() ProductRecord {
	var c ProductRecord
	if r.ID != nil {
		v := *r.ID
		c.ID = &v
	}
	if r.Name != nil {
		v := *r.Name
		c.Name = &v
	}
	if r.Description != nil {
		v := *r.Description
		c.Description = &v
	}
	if r.Cost != nil {
		v := *r.Cost
		c.Cost = &v
	}
	if r.Qty != nil {
		v := *r.Qty
		c.Qty = &v
	}
	return c
}
