package repository

import "github.com/shoplite/catalog-backend/internal/domain/entity"

// UserRepository defines the storage port for users. Lookups return
// (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(u *entity.User) error
	Update(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	List(page, pageSize int) ([]*entity.User, error)
	Count() (int64, error)
	Delete(id string) error
}
