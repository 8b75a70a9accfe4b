package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shoplite/catalog-backend/internal/domain/apperror"
	"github.com/shoplite/catalog-backend/internal/domain/entity"
	repo "github.com/shoplite/catalog-backend/internal/domain/repository"
	"github.com/shoplite/catalog-backend/internal/domain/valueobject"
	"github.com/shoplite/catalog-backend/pkg/helpers"
)

const productCacheTTL = 10 * time.Minute

func productCacheKey(id string) string {
	return "product:" + id
}

// ProductService orchestrates the product lifecycle. It is the only place
// that combines the product and category aggregates to enforce cross-entity
// rules: category must be active on assignment, product names are unique per
// category, stock never goes negative, and a product can only be removed once
// its stock is drained.
//
// Each operation is a plain read-validate-write sequence; concurrent stock
// adjustments against the same product are subject to a lost-update race
// unless the caller serializes access per product id.
type ProductService struct {
	Products   repo.ProductRepository
	Categories repo.CategoryRepository
	Redis      *redis.Client
	Logger     *logrus.Logger
	ES         *elasticsearch.Client
	ESIndex    string
	GCS        *storage.Client
	GCSBucket  string
}

func NewProductService(products repo.ProductRepository, categories repo.CategoryRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string) *ProductService {
	return &ProductService{
		Products:   products,
		Categories: categories,
		Redis:      rdb,
		Logger:     logger,
		ES:         es,
		ESIndex:    esIndex,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
	}
}

// validateCandidate runs the structural checks shared by create and update:
// name, price and category reference must be present.
func (s *ProductService) validateCandidate(candidate *entity.Product) error {
	if strings.TrimSpace(candidate.Name) == "" {
		return apperror.New(apperror.KindMissingField, "product name is required")
	}
	if candidate.Price.IsZero() {
		return apperror.New(apperror.KindInvalidPrice, "product price is required")
	}
	if candidate.Category.ID == "" {
		return apperror.New(apperror.KindMissingField, "product category is required")
	}
	return nil
}

// loadActiveCategory fetches the current category state; assignment rules are
// always checked against the store, never against the caller's copy.
func (s *ProductService) loadActiveCategory(categoryID string) (*entity.Category, error) {
	cat, err := s.Categories.GetByID(categoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.New(apperror.KindNotFound, "category %s not found", categoryID)
	}
	if !cat.Active {
		return nil, apperror.New(apperror.KindCategoryInactive, "category %s (%s) is inactive", cat.ID, cat.Name)
	}
	return cat, nil
}

// CreateProduct validates and persists a new product. Checks run in order:
// field presence, category active, stock non-negative, name unique within the
// category. Nothing is written when any check fails.
func (s *ProductService) CreateProduct(ctx context.Context, candidate *entity.Product) (*entity.Product, error) {
	if err := s.validateCandidate(candidate); err != nil {
		return nil, err
	}
	cat, err := s.loadActiveCategory(candidate.Category.ID)
	if err != nil {
		return nil, err
	}
	if candidate.StockQuantity < 0 {
		return nil, apperror.New(apperror.KindInvalidStock,
			"stock quantity must not be negative, got %d", candidate.StockQuantity)
	}
	taken, err := s.Products.ExistsByNameInCategory(candidate.Name, cat.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.New(apperror.KindDuplicateName,
			"product name %q already exists in category %s", candidate.Name, cat.Name)
	}

	if candidate.SKU == "" {
		candidate.SKU = "SKU-" + strings.ToUpper(uuid.NewString()[:8])
	} else {
		exists, err := s.Products.ExistsBySKU(candidate.SKU)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.New(apperror.KindDuplicateName, "sku %q is already in use", candidate.SKU)
		}
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}
	candidate.Category = *cat
	now := time.Now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	if err := s.Products.Create(candidate); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, candidate)
	return candidate, nil
}

// UpdateProduct re-runs the creation validations against the stored product,
// preserving id and createdAt. The uniqueness check is skipped only when both
// the name and the category are unchanged.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, candidate *entity.Product) (*entity.Product, error) {
	existing, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCandidate(candidate); err != nil {
		return nil, err
	}
	cat, err := s.loadActiveCategory(candidate.Category.ID)
	if err != nil {
		return nil, err
	}
	if candidate.StockQuantity < 0 {
		return nil, apperror.New(apperror.KindInvalidStock,
			"stock quantity must not be negative, got %d", candidate.StockQuantity)
	}
	if candidate.Name != existing.Name || cat.ID != existing.Category.ID {
		taken, err := s.Products.ExistsByNameInCategory(candidate.Name, cat.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.New(apperror.KindDuplicateName,
				"product name %q already exists in category %s", candidate.Name, cat.Name)
		}
	}

	existing.Name = candidate.Name
	existing.Description = candidate.Description
	existing.Category = *cat
	if err := existing.ChangePrice(candidate.Price); err != nil {
		return nil, err
	}
	if err := existing.SetStockQuantity(candidate.StockQuantity); err != nil {
		return nil, err
	}
	if err := s.Products.Update(existing); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, existing)
	return existing, nil
}

// AdjustStock applies a signed delta to the stored quantity. A delta that
// would take the quantity negative fails without writing.
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error) {
	p, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if err := p.AdjustStock(delta); err != nil {
		return nil, err
	}
	if err := s.Products.Update(p); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p)
	return p, nil
}

// ChangeCategory moves the product into another category, which must be
// active, and re-checks name uniqueness under the new category.
func (s *ProductService) ChangeCategory(ctx context.Context, id, categoryID string) (*entity.Product, error) {
	p, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	cat, err := s.loadActiveCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if cat.ID != p.Category.ID {
		taken, err := s.Products.ExistsByNameInCategory(p.Name, cat.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.New(apperror.KindDuplicateName,
				"product name %q already exists in category %s", p.Name, cat.Name)
		}
	}
	if err := p.AssignCategory(*cat); err != nil {
		return nil, err
	}
	if err := s.Products.Update(p); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p)
	return p, nil
}

// UpdatePrice replaces the product price. An absent price is rejected; a
// negative one cannot be constructed at all.
func (s *ProductService) UpdatePrice(ctx context.Context, id string, price valueobject.Money) (*entity.Product, error) {
	p, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	if err := p.ChangePrice(price); err != nil {
		return nil, err
	}
	if err := s.Products.Update(p); err != nil {
		return nil, err
	}
	s.afterWrite(ctx, p)
	return p, nil
}

// DeactivateProduct removes the product from the store. Removal is gated on
// zero stock; it is a hard delete, not a reversible flag.
func (s *ProductService) DeactivateProduct(ctx context.Context, id string) error {
	p, err := s.getExisting(id)
	if err != nil {
		return err
	}
	if p.StockQuantity > 0 {
		return apperror.New(apperror.KindCannotDeactivateWithStock,
			"cannot deactivate product %s (%s): %d units still in stock", p.ID, p.Name, p.StockQuantity)
	}
	if err := s.Products.Delete(p.ID); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, productCacheKey(p.ID))
	}
	s.deleteFromIndex(ctx, p.ID)
	return nil
}

// GetProductByID resolves a product, serving from the Redis cache when warm.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	if s.Redis != nil {
		var cached productDocument
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, productCacheKey(id), &cached); err == nil && ok {
			if p, err := cached.toEntity(); err == nil {
				return p, nil
			}
		}
	}
	p, err := s.getExisting(id)
	if err != nil {
		return nil, err
	}
	s.cacheProduct(ctx, p)
	return p, nil
}

// GetProductBySKU resolves a product by its unique SKU.
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := s.Products.GetBySKU(sku)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.New(apperror.KindNotFound, "product with sku %q not found", sku)
	}
	return p, nil
}

// ListProductsByCategory returns one page of products plus the category total
// for pagination metadata.
func (s *ProductService) ListProductsByCategory(ctx context.Context, categoryID string, page, pageSize int) ([]*entity.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, err := s.Products.ListByCategory(categoryID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Products.CountByCategory(categoryID)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UploadProductImage streams an image to GCS and stores the public URL on the
// product.
func (s *ProductService) UploadProductImage(ctx context.Context, id string, r io.Reader, filename, contentType string) (string, error) {
	p, err := s.getExisting(id)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("products", p.ID, uuid.NewString()+ext))
	url, err := helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	p.SetImageURL(url)
	if err := s.Products.Update(p); err != nil {
		return "", err
	}
	s.afterWrite(ctx, p)
	return url, nil
}

func (s *ProductService) getExisting(id string) (*entity.Product, error) {
	p, err := s.Products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.New(apperror.KindNotFound, "product %s not found", id)
	}
	return p, nil
}

// afterWrite refreshes the cache and the search index for a persisted product.
func (s *ProductService) afterWrite(ctx context.Context, p *entity.Product) {
	s.cacheProduct(ctx, p)
	_ = s.indexProduct(ctx, p)
}

func (s *ProductService) cacheProduct(ctx context.Context, p *entity.Product) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, productCacheKey(p.ID), newProductDocument(p), productCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product cache write failed")
	}
}

// productDocument is the flat JSON form used for both the Redis cache and the
// Elasticsearch index.
type productDocument struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	PriceAmount    string    `json:"price_amount"`
	PriceCurrency  string    `json:"price_currency"`
	StockQuantity  int       `json:"stock_quantity"`
	CategoryID     string    `json:"category_id"`
	CategoryName   string    `json:"category_name"`
	CategoryActive bool      `json:"category_active"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newProductDocument(p *entity.Product) productDocument {
	return productDocument{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		PriceAmount:    p.Price.Amount().String(),
		PriceCurrency:  p.Price.Currency(),
		StockQuantity:  p.StockQuantity,
		CategoryID:     p.Category.ID,
		CategoryName:   p.Category.Name,
		CategoryActive: p.Category.Active,
		ImageURL:       p.ImageURL,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d productDocument) toEntity() (*entity.Product, error) {
	price, err := valueobject.NewMoneyFromString(d.PriceAmount, d.PriceCurrency)
	if err != nil {
		return nil, err
	}
	return &entity.Product{
		ID:            d.ID,
		SKU:           d.SKU,
		Name:          d.Name,
		Description:   d.Description,
		Price:         price,
		StockQuantity: d.StockQuantity,
		Category:      entity.Category{ID: d.CategoryID, Name: d.CategoryName, Active: d.CategoryActive},
		ImageURL:      d.ImageURL,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

func (s *ProductService) indexProduct(ctx context.Context, p *entity.Product) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	b, _ := json.Marshal(newProductDocument(p))
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("product_id", p.ID).Warn("es index response error")
	}
	return nil
}

func (s *ProductService) deleteFromIndex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("product_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// SearchProducts performs a multi_match search over name, description and SKU.
func (s *ProductService) SearchProducts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description", "sku"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
