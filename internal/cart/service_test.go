package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikolino98/SillonesCordoba/internal/cart/cache"
	"github.com/Nikolino98/SillonesCordoba/internal/cart/repository"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	clone := *m.cart
	clone.Items = append([]domain.CartItem(nil), m.cart.Items...)
	return &clone, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) DeleteCart(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testProduct(id string, price float64) domain.Product {
	return domain.Product{ID: id, Name: "Sillón " + id, Price: price, InStock: true}
}

func TestGetCart_EmptyFallback(t *testing.T) {
	sut := NewService(&mockRepository{}, &mockCache{}, testLogger())

	cart, err := sut.GetCart(context.Background(), "s1")

	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Equal(t, "s1", cart.SessionID)
	assert.True(t, cart.IsEmpty())
}

func TestGetCart_FromCache(t *testing.T) {
	cached := &domain.Cart{
		SessionID: "s1",
		Items:     []domain.CartItem{{Product: testProduct("p1", 1000), Quantity: 2}},
	}
	repoErr := &mockRepository{err: assert.AnError}
	sut := NewService(repoErr, &mockCache{cart: cached}, testLogger())

	cart, err := sut.GetCart(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, 2, cart.TotalItems())
}

func TestAddItem_MergesSameLine(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, float64(2000), cart.TotalPrice())
}

func TestAddItem_DistinctColors(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)
	cart, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "")
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, float64(2000), cart.TotalPrice())
}

func TestAddItem_InvalidatesCache(t *testing.T) {
	stale := &mockCache{cart: &domain.Cart{SessionID: "s1"}}
	sut := NewService(&mockRepository{}, stale, testLogger())

	_, err := sut.AddItem(context.Background(), "s1", testProduct("p1", 1000), "")

	require.NoError(t, err)
	assert.Nil(t, stale.getCart())
}

func TestUpdateQuantity_NonPositiveRemoves(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "s1", "p1", "negro", 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	_, err = sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)
	cart, err = sut.UpdateQuantity(ctx, "s1", "p1", "negro", -1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "")
	require.NoError(t, err)

	cart, err := sut.UpdateQuantity(ctx, "s1", "p1", "", 4)

	require.NoError(t, err)
	assert.Equal(t, 4, cart.TotalItems())
	assert.Equal(t, float64(4000), cart.TotalPrice())
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "negro")
	require.NoError(t, err)

	_, err = sut.UpdateQuantity(ctx, "s1", "p1", "blanco", 2)

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveItem_UnknownLine(t *testing.T) {
	sut := NewService(&mockRepository{}, &mockCache{}, testLogger())

	_, err := sut.RemoveItem(context.Background(), "s1", "p1", "")

	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestClear_EmptiesAndTolerated(t *testing.T) {
	repo := &mockRepository{}
	sut := NewService(repo, &mockCache{}, testLogger())
	ctx := context.Background()

	_, err := sut.AddItem(ctx, "s1", testProduct("p1", 1000), "")
	require.NoError(t, err)

	require.NoError(t, sut.Clear(ctx, "s1"))
	cart, err := sut.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, float64(0), cart.TotalPrice())

	// Clearing an already-empty cart succeeds
	require.NoError(t, sut.Clear(ctx, "s1"))
}
