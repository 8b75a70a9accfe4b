package repository

import "github.com/shoplite/catalog-backend/internal/domain/entity"

// CategoryRepository defines the storage port for categories. Lookups return
// (nil, nil) when the category does not exist.
type CategoryRepository interface {
	Create(c *entity.Category) error
	Update(c *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	List(page, pageSize int) ([]*entity.Category, error)
	Count() (int64, error)
	Delete(id string) error
}
