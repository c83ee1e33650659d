// Package admin implements the product/category management surface
// behind the authenticated admin panel.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Nikolino98/SillonesCordoba/internal/admin/storage"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

const maxImagesPerProduct = 5

var (
	ErrNameRequired     = errors.New("product name is required")
	ErrPriceRequired    = errors.New("product price must be positive")
	ErrCategoryRequired = errors.New("product category is required")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrTooManyImages    = errors.New("too many images for this product")
	ErrEmptyCategory    = errors.New("category name cannot be empty")
)

// ProductStore is the persistence surface the admin service drives.
type ProductStore interface {
	InsertProduct(ctx context.Context, input ProductInput) (string, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filters Filters) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	RenameCategory(ctx context.Context, oldName, newName string) (int64, error)
	CountCategoryProducts(ctx context.Context, category string) (int, error)
	InsertImage(ctx context.Context, image domain.ProductImage) (string, error)
	ListImages(ctx context.Context, productID string) ([]domain.ProductImage, error)
	CountImages(ctx context.Context, productID string) (int, error)
	DeleteImage(ctx context.Context, imageID string) (string, error)
}

type Service struct {
	store  ProductStore
	images storage.ImageStorage
	log    *logrus.Entry
}

func NewService(store ProductStore, images storage.ImageStorage, log *logrus.Logger) *Service {
	return &Service{
		store:  store,
		images: images,
		log:    log.WithField("component", "admin"),
	}
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.Price <= 0 {
		return ErrPriceRequired
	}
	if strings.TrimSpace(input.Category) == "" {
		return ErrCategoryRequired
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}

	id, err := s.store.InsertProduct(ctx, input)
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"product_id": id, "name": input.Name}).Info("product created")
	return id, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) error {
	if err := validateInput(input); err != nil {
		return err
	}

	if err := s.store.UpdateProduct(ctx, id, input); err != nil {
		return err
	}

	s.log.WithField("product_id", id).Info("product updated")
	return nil
}

// DeleteProduct removes the product, its image rows and, best effort,
// the stored files behind them.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	images, err := s.store.ListImages(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	for _, image := range images {
		if err := s.images.Remove(ctx, image.ImageURL); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			s.log.WithError(err).WithField("image_url", image.ImageURL).Warn("failed to remove stored image")
		}
	}

	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

func (s *Service) ListProducts(ctx context.Context, filters Filters) ([]domain.Product, error) {
	products, err := s.store.ListProducts(ctx, filters)
	if err != nil {
		return nil, err
	}

	for idx := range products {
		images, err := s.store.ListImages(ctx, products[idx].ID)
		if err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(images))
		for _, image := range images {
			urls = append(urls, image.ImageURL)
		}
		products[idx].Images = urls
	}

	return products, nil
}

// UploadImage stores the file and records it, keeping the original's
// rules: at most five images per product, the first one is primary.
func (s *Service) UploadImage(ctx context.Context, productID, filename string, r io.Reader) (*domain.ProductImage, error) {
	count, err := s.store.CountImages(ctx, productID)
	if err != nil {
		return nil, err
	}
	if count >= maxImagesPerProduct {
		return nil, ErrTooManyImages
	}

	storedName := fmt.Sprintf("%s-%d-%s%s",
		productID, time.Now().UnixMilli(), uuid.NewString()[:8], strings.ToLower(path.Ext(filename)))

	url, err := s.images.Save(ctx, storedName, r)
	if err != nil {
		return nil, err
	}

	image := domain.ProductImage{
		ProductID: productID,
		ImageURL:  url,
		SortOrder: count,
		IsPrimary: count == 0,
	}

	id, err := s.store.InsertImage(ctx, image)
	if err != nil {
		// Insert failed: don't leave an orphan file behind
		if removeErr := s.images.Remove(ctx, url); removeErr != nil {
			s.log.WithError(removeErr).Warn("failed to remove orphan image file")
		}
		return nil, err
	}
	image.ID = id

	return &image, nil
}

func (s *Service) RemoveImage(ctx context.Context, imageID string) error {
	url, err := s.store.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.images.Remove(ctx, url); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
		s.log.WithError(err).WithField("image_url", url).Warn("failed to remove stored image")
	}

	return nil
}

func (s *Service) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.store.Categories(ctx)
}

func (s *Service) RenameCategory(ctx context.Context, oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyCategory
	}

	moved, err := s.store.RenameCategory(ctx, oldName, newName)
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"from": oldName, "to": newName, "moved": moved}).Info("category renamed")
	return nil
}

// DeleteCategory refuses while products still reference the category;
// an empty category simply stops existing since categories are derived
// from product rows.
func (s *Service) DeleteCategory(ctx context.Context, category string) error {
	count, err := s.store.CountCategoryProducts(ctx, category)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products in %q", ErrCategoryInUse, count, category)
	}

	return nil
}
