package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoplite/catalog-backend/internal/domain/entity"
	"github.com/shoplite/catalog-backend/internal/domain/repository"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Products are always loaded with their category joined in so the service
// layer sees the category's current active flag.
const productSelect = `
	SELECT p.id, p.sku, p.name, p.description, p.price_amount::text, p.price_currency,
	       p.stock_quantity, p.image_url, p.created_at, p.updated_at,
	       c.id, c.name, c.description, c.active, c.created_at, c.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id
`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p           entity.Product
		c           entity.Category
		priceAmount string
		priceCcy    string
		imageURL    *string
	)
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &priceAmount, &priceCcy,
		&p.StockQuantity, &imageURL, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	price, err := valueobject.NewMoneyFromString(priceAmount, priceCcy)
	if err != nil {
		return nil, err
	}
	p.Price = price
	p.Category = c
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	return &p, nil
}

func (r *ProductRepository) Create(p *entity.Product) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, sku, name, description, price_amount, price_currency, stock_quantity, category_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.SKU, p.Name, p.Description, p.Price.Amount().String(), p.Price.Currency(), p.StockQuantity, p.Category.ID, nullable(p.ImageURL), p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProductRepository) Update(p *entity.Product) error {
	ctx := context.Background()
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE products
		SET sku = $1, name = $2, description = $3, price_amount = $4, price_currency = $5,
		    stock_quantity = $6, category_id = $7, image_url = $8, updated_at = $9
		WHERE id = $10
	`, p.SKU, p.Name, p.Description, p.Price.Amount().String(), p.Price.Currency(), p.StockQuantity, p.Category.ID, nullable(p.ImageURL), p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.New("product not found")
	}
	return nil
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	ctx := context.Background()
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepository) GetBySKU(sku string) (*entity.Product, error) {
	ctx := context.Background()
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.sku = $1`, sku))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProductRepository) ExistsBySKU(sku string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	return exists, err
}

func (r *ProductRepository) ExistsByNameInCategory(name, categoryID string) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE name = $1 AND category_id = $2)`, name, categoryID).Scan(&exists)
	return exists, err
}

func (r *ProductRepository) ListByCategory(categoryID string, page, pageSize int) ([]*entity.Product, error) {
	ctx := context.Background()
	offset := (page - 1) * pageSize
	rows, err := r.pool.Query(ctx, productSelect+` WHERE p.category_id = $1 ORDER BY p.name LIMIT $2 OFFSET $3`, categoryID, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) CountByCategory(categoryID string) (int64, error) {
	ctx := context.Background()
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n)
	return n, err
}

func (r *ProductRepository) Count() (int64, error) {
	ctx := context.Background()
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

func (r *ProductRepository) Delete(id string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
