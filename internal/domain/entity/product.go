package entity

import (
	"time"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

// Product is the aggregate root for the catalog domain. Field mutation goes
// through the named operations below; cross-entity rules (name uniqueness per
// category) live in the product service.
type Product struct {
	ID            string
	SKU           string
	Name          string
	Description   string
	Price         valueobject.Money
	StockQuantity int
	Category      Category
	ImageURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AdjustStock applies a signed delta. A delta that would take the quantity
// negative is rejected without mutating the aggregate.
func (p *Product) AdjustStock(delta int) error {
	newQty := p.StockQuantity + delta
	if newQty < 0 {
		return apperror.New(apperror.KindInvalidStock,
			"cannot adjust stock of product %s by %d: current quantity is %d", p.ID, delta, p.StockQuantity)
	}
	p.StockQuantity = newQty
	p.UpdatedAt = time.Now()
	return nil
}

// SetStockQuantity replaces the quantity. Negative quantities are never legal,
// not even on construction; there is no backorder path.
func (p *Product) SetStockQuantity(qty int) error {
	if qty < 0 {
		return apperror.New(apperror.KindInvalidStock,
			"stock quantity must not be negative, got %d", qty)
	}
	p.StockQuantity = qty
	p.UpdatedAt = time.Now()
	return nil
}

// ChangePrice replaces the price. An absent (zero-value) price is rejected
// here; a negative amount cannot be constructed in the first place.
func (p *Product) ChangePrice(price valueobject.Money) error {
	if price.IsZero() {
		return apperror.New(apperror.KindInvalidPrice, "product %s: price is required", p.ID)
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// AssignCategory moves the product into a category, which must be active at
// the moment of assignment.
func (p *Product) AssignCategory(c Category) error {
	if !c.Active {
		return apperror.New(apperror.KindCategoryInactive,
			"category %s (%s) is inactive", c.ID, c.Name)
	}
	p.Category = c
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
}
