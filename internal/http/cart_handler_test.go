package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nikolino98/SillonesCordoba/internal/cart"
	"github.com/Nikolino98/SillonesCordoba/internal/catalog"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

type cartServiceMock struct {
	cart *domain.Cart
	err  error

	lastProduct domain.Product
	lastColor   string
}

func (m *cartServiceMock) GetCart(_ context.Context, _ string) (*domain.Cart, error) {
	return m.cart, m.err
}

func (m *cartServiceMock) AddItem(_ context.Context, _ string, product domain.Product, selectedColor string) (*domain.Cart, error) {
	m.lastProduct = product
	m.lastColor = selectedColor
	return m.cart, m.err
}

func (m *cartServiceMock) UpdateQuantity(_ context.Context, _, _, _ string, _ int) (*domain.Cart, error) {
	return m.cart, m.err
}

func (m *cartServiceMock) RemoveItem(_ context.Context, _, _, _ string) (*domain.Cart, error) {
	return m.cart, m.err
}

func (m *cartServiceMock) Clear(_ context.Context, _ string) error {
	return m.err
}

type productGetterMock struct {
	product *domain.Product
	err     error
}

func (m *productGetterMock) GetProduct(_ context.Context, _ string) (*domain.Product, error) {
	return m.product, m.err
}

func withSession(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, "session-1")
	return r.WithContext(ctx)
}

func TestGetCart_Success(t *testing.T) {
	carts := &cartServiceMock{cart: &domain.Cart{SessionID: "session-1"}}
	handler := NewCartHandler(carts, &productGetterMock{})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("GET", "/api/v1/cart", nil))

	handler.GetCart(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response domain.Cart
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "session-1", response.SessionID)
}

func TestGetCart_NoSession(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &productGetterMock{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/api/v1/cart", nil)

	handler.GetCart(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAddItem_ResolvesProduct(t *testing.T) {
	product := domain.Product{ID: "p1", Name: "Sillón Nórdico", Price: 1000}
	carts := &cartServiceMock{cart: &domain.Cart{SessionID: "session-1"}}
	handler := NewCartHandler(carts, &productGetterMock{product: &product})

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "p1", SelectedColor: "negro"})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "Sillón Nórdico", carts.lastProduct.Name)
	assert.Equal(t, "negro", carts.lastColor)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &productGetterMock{err: catalog.ErrProductNotFound})

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "missing"})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "not_found", response.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &productGetterMock{})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte(`{}`))))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateQuantity_LineNotFound(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{err: cart.ErrLineNotFound}, &productGetterMock{})

	body, _ := json.Marshal(UpdateQuantityRequestDTO{SelectedColor: "negro", Quantity: 3})
	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("PUT", "/api/v1/cart/items/p1", bytes.NewReader(body)))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", "p1")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.UpdateQuantity(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRemoveItem_LineNotFound(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{err: cart.ErrLineNotFound}, &productGetterMock{})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/api/v1/cart/items/p1?color=negro", nil))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("product_id", "p1")
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	handler.RemoveItem(recorder, request)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "not_found", response.Code)
}

func TestClearCart(t *testing.T) {
	handler := NewCartHandler(&cartServiceMock{}, &productGetterMock{})

	recorder := httptest.NewRecorder()
	request := withSession(httptest.NewRequest("DELETE", "/api/v1/cart", nil))

	handler.ClearCart(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
