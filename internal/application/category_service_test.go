package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
)

func newCategoryFixture() (*CategoryService, *fakeCategoryRepo, *fakeProductRepo) {
	cats := newFakeCategoryRepo()
	prods := newFakeProductRepo()
	return NewCategoryService(cats, prods, nil), cats, prods
}

func TestCreateCategory(t *testing.T) {
	svc, cats, _ := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Electronics", Description: "gadgets"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Active)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Len(t, cats.items, 1)
}

func TestCreateCategory_MissingName(t *testing.T) {
	svc, cats, _ := newCategoryFixture()

	_, err := svc.CreateCategory(context.Background(), &entity.Category{Name: "   "})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindMissingField))
	assert.Empty(t, cats.items)
}

func TestCreateCategory_DuplicateName(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &entity.Category{Name: "Books"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, &entity.Category{Name: "Books"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDuplicateName))
	assert.Contains(t, err.Error(), "Books")
}

func TestUpdateCategory(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Books"})
	require.NoError(t, err)

	updated, err := svc.UpdateCategory(ctx, c.ID, &entity.Category{Name: "Paper Books", Description: "printed"})
	require.NoError(t, err)
	assert.Equal(t, "Paper Books", updated.Name)
	assert.Equal(t, "printed", updated.Description)
	assert.Equal(t, c.ID, updated.ID)
}

func TestUpdateCategory_KeepOwnName(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Books"})
	require.NoError(t, err)

	// same name, new description: no duplicate complaint against itself
	updated, err := svc.UpdateCategory(ctx, c.ID, &entity.Category{Name: "Books", Description: "all of them"})
	require.NoError(t, err)
	assert.Equal(t, "all of them", updated.Description)
}

func TestUpdateCategory_DuplicateName(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &entity.Category{Name: "Books"})
	require.NoError(t, err)
	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Music"})
	require.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, c.ID, &entity.Category{Name: "Books"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDuplicateName))
}

func TestUpdateCategory_NotFound(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	_, err := svc.UpdateCategory(context.Background(), "missing", &entity.Category{Name: "X"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSetCategoryActive(t *testing.T) {
	svc, cats, _ := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Seasonal"})
	require.NoError(t, err)

	off, err := svc.SetCategoryActive(ctx, c.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)
	assert.False(t, cats.items[c.ID].Active)

	on, err := svc.SetCategoryActive(ctx, c.ID, true)
	require.NoError(t, err)
	assert.True(t, on.Active)
}

func TestDeleteCategory(t *testing.T) {
	svc, cats, _ := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Empty"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.Empty(t, cats.items)
}

func TestDeleteCategory_WithProducts(t *testing.T) {
	svc, _, prods := newCategoryFixture()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, &entity.Category{Name: "Busy"})
	require.NoError(t, err)
	prods.items["p1"] = entity.Product{ID: "p1", Name: "Widget", Category: *c}

	err = svc.DeleteCategory(ctx, c.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Contains(t, err.Error(), "Busy")
}

func TestListCategories(t *testing.T) {
	svc, _, _ := newCategoryFixture()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.CreateCategory(ctx, &entity.Category{Name: name})
		require.NoError(t, err)
	}

	items, total, err := svc.ListCategories(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), total)

	// out-of-range page values fall back to defaults
	items, total, err = svc.ListCategories(ctx, 0, -5)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, int64(3), total)
}
