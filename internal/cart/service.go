package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Nikolino98/SillonesCordoba/internal/cart/cache"
	"github.com/Nikolino98/SillonesCordoba/internal/cart/repository"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

// Service is the single source of truth for cart contents. Every
// mutation is persisted before returning; reads go through the cache.
type Service struct {
	repo  repository.CartRepository
	cache cache.CartCache
	log   *logrus.Entry
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, cache cache.CartCache, log *logrus.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log.WithField("component", "cart"),
	}
}

// GetCart returns the session's cart, falling back to an empty cart
// when none has been persisted yet.
func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight so concurrent cache misses for the same session
	// hit the repository once
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.WithError(err).Warn("cache get error") // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{
				SessionID: sessionID,
				Items:     nil,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			if errSet := s.cache.Set(context.Background(), sessionID, cart); errSet != nil {
				s.log.WithError(errSet).Warn("cache set error")
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem merges the product into the session's cart by
// (product id, selected color) and persists the result.
func (s *Service) AddItem(ctx context.Context, sessionID string, product domain.Product, selectedColor string) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(product, selectedColor)

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.WithError(err).Error("repo add item error")
		return nil, err
	}

	s.invalidateCache(sessionID)
	return cart, nil
}

// UpdateQuantity sets a line's quantity. A non-positive quantity
// delegates to RemoveItem so decrement controls double as removal.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID, selectedColor string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID, selectedColor)
	}

	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(productID, selectedColor, quantity) {
		return nil, ErrLineNotFound
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.WithError(err).Error("repo update quantity error")
		return nil, err
	}

	s.invalidateCache(sessionID)
	return cart, nil
}

// RemoveItem deletes the whole matching line; there is no
// partial-quantity removal through this call.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID, selectedColor string) (*domain.Cart, error) {
	cart, err := s.loadForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveLine(productID, selectedColor) {
		return nil, ErrLineNotFound
	}

	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		s.log.WithError(err).Error("repo remove item error")
		return nil, err
	}

	s.invalidateCache(sessionID)
	return cart, nil
}

// Clear empties the session's cart. Clearing a cart that was never
// persisted is not an error.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.repo.DeleteCart(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.log.WithError(err).Error("repo delete cart error")
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

func (s *Service) loadForWrite(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if errors.Is(err, repository.ErrCartNotFound) {
		now := time.Now()
		return &domain.Cart{SessionID: sessionID, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

func (s *Service) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		s.log.WithError(err).Warn("cache invalidate error")
	}
}
