package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/repositories"
	"github.com/threadline/threadline/pkg/storage"
)

// CatalogStore is the product persistence surface the catalog needs.
type CatalogStore interface {
	All(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}

// CreateProductInput is the admin product creation payload. Image holds the
// raw upload; when empty the product is created without an image.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Variants    []models.Variant
	ImageName   string
	Image       []byte
}

// CatalogService exposes the product catalog.
type CatalogService struct {
	products CatalogStore
}

func NewCatalogService(products CatalogStore) *CatalogService {
	return &CatalogService{products: products}
}

// List returns the catalog, newest first.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All(ctx)
}

// Get returns one product.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create stores the uploaded image on the configured disk, then persists
// the product with its public image URL.
func (s *CatalogService) Create(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Variants:    in.Variants,
	}
	if product.Variants == nil {
		product.Variants = []models.Variant{}
	}

	if len(in.Image) > 0 {
		key := "products/" + uuid.NewString() + strings.ToLower(path.Ext(in.ImageName))
		if err := storage.Put(key, in.Image); err != nil {
			return nil, fmt.Errorf("store product image: %w", err)
		}
		product.Image = storage.URL(key)
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}
