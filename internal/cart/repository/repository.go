package repository

import (
	"context"
	"errors"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository defines the persistence operations the cart service
// needs. Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
