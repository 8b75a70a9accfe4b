package repository

import "github.com/shoplite/catalog-backend/internal/domain/entity"

// ProductRepository defines the storage port for products. Lookups return
// (nil, nil) when the product does not exist.
//
// ExistsByNameInCategory is a dedicated existence query: uniqueness checks
// must never rely on a paged listing that could miss duplicates beyond the
// first page.
type ProductRepository interface {
	Create(p *entity.Product) error
	Update(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	ExistsBySKU(sku string) (bool, error)
	ExistsByNameInCategory(name, categoryID string) (bool, error)
	ListByCategory(categoryID string, page, pageSize int) ([]*entity.Product, error)
	CountByCategory(categoryID string) (int64, error)
	Count() (int64, error)
	Delete(id string) error
}
