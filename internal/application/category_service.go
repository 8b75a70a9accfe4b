package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	repo "github.com/shoplite/catalog-backend/internal/domain/repository"
)

// CategoryService manages the category reference data products hang off.
type CategoryService struct {
	Categories repo.CategoryRepository
	Products   repo.ProductRepository
	Logger     *logrus.Logger
}

func NewCategoryService(categories repo.CategoryRepository, products repo.ProductRepository, logger *logrus.Logger) *CategoryService {
	return &CategoryService{Categories: categories, Products: products, Logger: logger}
}

// CreateCategory persists a new, active category with a unique name.
func (s *CategoryService) CreateCategory(ctx context.Context, candidate *entity.Category) (*entity.Category, error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, apperror.New(apperror.KindMissingField, "category name is required")
	}
	existing, err := s.Categories.GetByName(candidate.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.KindDuplicateName, "category name %q already exists", candidate.Name)
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	candidate.Active = true
	now := time.Now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	if err := s.Categories.Create(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// UpdateCategory renames/redescribes a category, keeping the name unique.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, candidate *entity.Category) (*entity.Category, error) {
	existing, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(candidate.Name) == "" {
		return nil, apperror.New(apperror.KindMissingField, "category name is required")
	}
	if candidate.Name != existing.Name {
		other, err := s.Categories.GetByName(candidate.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != existing.ID {
			return nil, apperror.New(apperror.KindDuplicateName, "category name %q already exists", candidate.Name)
		}
	}
	existing.Name = candidate.Name
	existing.Description = candidate.Description
	existing.UpdatedAt = time.Now()
	if err := s.Categories.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetCategoryActive flips the active flag. Existing products keep their
// assignment; the flag only gates new assignments.
func (s *CategoryService) SetCategoryActive(ctx context.Context, id string, active bool) (*entity.Category, error) {
	c, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if active {
		c.Activate()
	} else {
		c.Deactivate()
	}
	if err := s.Categories.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes an empty category. Categories that still own
// products cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	c, err := s.getExisting(id)
	if err != nil {
		return err
	}
	n, err := s.Products.CountByCategory(c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.New(apperror.KindForbidden, "cannot delete category %s (%s): %d products still assigned", c.ID, c.Name, n)
	}
	return s.Categories.Delete(c.ID)
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*entity.Category, error) {
	return s.getExisting(id)
}

// ListCategories returns one page of categories plus the total count.
func (s *CategoryService) ListCategories(ctx context.Context, page, pageSize int) ([]*entity.Category, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, err := s.Categories.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Categories.Count()
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *CategoryService) getExisting(id string) (*entity.Category, error) {
	c, err := s.Categories.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.New(apperror.KindNotFound, "category %s not found", id)
	}
	return c, nil
}
