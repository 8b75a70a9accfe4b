package application

import (
	"sort"

	"github.com/shoplite/catalog-backend/internal/domain/entity"
)

// In-memory repository fakes. Writes store copies so tests can detect whether
// a rejected operation leaked a partial mutation into the store.

type fakeCategoryRepo struct {
	items map[string]entity.Category
	err   error
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{items: map[string]entity.Category{}}
}

func (r *fakeCategoryRepo) Create(c *entity.Category) error {
	if r.err != nil {
		return r.err
	}
	r.items[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) Update(c *entity.Category) error {
	if r.err != nil {
		return r.err
	}
	r.items[c.ID] = *c
	return nil
}

func (r *fakeCategoryRepo) GetByID(id string) (*entity.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetByName(name string) (*entity.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.items {
		if c.Name == name {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) List(page, pageSize int) ([]*entity.Category, error) {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.Category
	for _, id := range ids {
		c := r.items[id]
		out = append(out, &c)
	}
	return paginate(out, page, pageSize), nil
}

func (r *fakeCategoryRepo) Count() (int64, error) { return int64(len(r.items)), nil }

func (r *fakeCategoryRepo) Delete(id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

type fakeProductRepo struct {
	items map[string]entity.Product
	err   error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]entity.Product{}}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	if r.err != nil {
		return r.err
	}
	r.items[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if r.err != nil {
		return r.err
	}
	r.items[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.items {
		if p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) ExistsBySKU(sku string) (bool, error) {
	p, _ := r.GetBySKU(sku)
	return p != nil, nil
}

func (r *fakeProductRepo) ExistsByNameInCategory(name, categoryID string) (bool, error) {
	for _, p := range r.items {
		if p.Name == name && p.Category.ID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) ListByCategory(categoryID string, page, pageSize int) ([]*entity.Product, error) {
	ids := make([]string, 0, len(r.items))
	for id, p := range r.items {
		if p.Category.ID == categoryID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var out []*entity.Product
	for _, id := range ids {
		p := r.items[id]
		out = append(out, &p)
	}
	return paginate(out, page, pageSize), nil
}

func (r *fakeProductRepo) CountByCategory(categoryID string) (int64, error) {
	var n int64
	for _, p := range r.items {
		if p.Category.ID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *fakeProductRepo) Count() (int64, error) { return int64(len(r.items)), nil }

func (r *fakeProductRepo) Delete(id string) error {
	if r.err != nil {
		return r.err
	}
	delete(r.items, id)
	return nil
}

type fakeUserRepo struct {
	items map[string]entity.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	if r.err != nil {
		return r.err
	}
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	if r.err != nil {
		return r.err
	}
	r.items[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.items {
		if u.Email.Value() == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(email string) (bool, error) {
	u, err := r.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (r *fakeUserRepo) List(page, pageSize int) ([]*entity.User, error) {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.User
	for _, id := range ids {
		u := r.items[id]
		out = append(out, &u)
	}
	return paginate(out, page, pageSize), nil
}

func (r *fakeUserRepo) Count() (int64, error) { return int64(len(r.items)), nil }

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
