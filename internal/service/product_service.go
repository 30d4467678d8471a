package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"shopdesk/internal/domain"
	"shopdesk/internal/repository"
	"shopdesk/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageUpload is one uploaded product image.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
	Size        int64
}

// CreateProductInput carries an already-normalized product payload; field
// parsing of the multipart encodings happens in transport.
type CreateProductInput struct {
	ProductName      string
	ShortDescription string
	LongDescription  string
	Brand            string
	Category         []string
	Tags             []string
	Features         []string
	Specifications   map[string]string
	Image            ImageUpload
}

// UpdateProductInput holds partial updates. Nil fields keep the stored
// value; the image is replaced only when a new upload is supplied.
type UpdateProductInput struct {
	ProductName      *string
	ShortDescription *string
	LongDescription  *string
	Brand            *string
	Category         []string
	Tags             []string
	Features         []string
	Specifications   map[string]string
	Image            *ImageUpload
}

// ProductService implements catalog CRUD with image upload delegated to
// external object storage.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	uploader    storage.ImageUploader
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	uploader storage.ImageUploader,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		uploader:    uploader,
		logger:      logger,
	}
}

// Create uploads the product image and persists the catalog entry.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	imageURL, err := s.uploader.Upload(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader, input.Image.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload product image: %w", err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	features := input.Features
	if features == nil {
		features = []string{}
	}

	product := &domain.Product{
		ID:               uuid.New(),
		ProductName:      input.ProductName,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		Image:            imageURL,
		Brand:            input.Brand,
		Category:         input.Category,
		Tags:             tags,
		Features:         features,
		Specifications:   input.Specifications,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// List returns all products, newest first.
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get returns one product by id.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Update applies the supplied fields on top of the stored product. The
// stored image is kept unless a new one was uploaded with the request.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load product for update: %w", err)
	}

	if input.ProductName != nil {
		product.ProductName = *input.ProductName
	}
	if input.ShortDescription != nil {
		product.ShortDescription = *input.ShortDescription
	}
	if input.LongDescription != nil {
		product.LongDescription = *input.LongDescription
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Features != nil {
		product.Features = input.Features
	}
	if input.Specifications != nil {
		product.Specifications = input.Specifications
	}

	if input.Image != nil {
		imageURL, err := s.uploader.Upload(ctx, input.Image.Filename, input.Image.ContentType, input.Image.Reader, input.Image.Size)
		if err != nil {
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		product.Image = imageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product from the catalog. The stored image is owned by
// the external storage service and is not touched here.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}
