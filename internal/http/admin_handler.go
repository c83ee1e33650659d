package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nikolino98/SillonesCordoba/internal/admin"
	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

const maxUploadSize = 10 << 20 // 10MB per image

// AdminLogin issues bearer tokens for the management surface.
type AdminLogin interface {
	Login(username, password string) (string, error)
}

// AdminService is the management surface behind the auth middleware.
type AdminService interface {
	CreateProduct(ctx context.Context, input admin.ProductInput) (string, error)
	UpdateProduct(ctx context.Context, id string, input admin.ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, filters admin.Filters) ([]domain.Product, error)
	UploadImage(ctx context.Context, productID, filename string, r io.Reader) (*domain.ProductImage, error)
	RemoveImage(ctx context.Context, imageID string) error
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, category string) error
}

type AdminHandler struct {
	auth    AdminLogin
	service AdminService
}

func NewAdminHandler(auth AdminLogin, service AdminService) *AdminHandler {
	return &AdminHandler{
		auth:    auth,
		service: service,
	}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := admin.Filters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Stock:    q.Get("stock"),
		Featured: q.Get("featured"),
		New:      q.Get("new"),
	}

	products, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input admin.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	id, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		if code, ok := adminErrorCode(err); ok {
			respondError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	var input admin.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.service.UpdateProduct(r.Context(), id, input); err != nil {
		if errors.Is(err, admin.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		if code, ok := adminErrorCode(err); ok {
			respondError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "product_id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, admin.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing_file", "image file is required")
		return
	}
	defer file.Close()

	image, err := h.service.UploadImage(r.Context(), productID, header.Filename, file)
	if err != nil {
		if errors.Is(err, admin.ErrTooManyImages) {
			respondError(w, http.StatusConflict, "too_many_images", "product already has the maximum number of images")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to store image")
		return
	}

	respondJSON(w, http.StatusCreated, image)
}

func (h *AdminHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")

	if err := h.service.RemoveImage(r.Context(), imageID); err != nil {
		if errors.Is(err, admin.ErrImageNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "image not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete image")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load categories")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

type RenameCategoryRequestDTO struct {
	Name string `json:"name"`
}

func (h *AdminHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	var req RenameCategoryRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.service.RenameCategory(r.Context(), category, req.Name); err != nil {
		if errors.Is(err, admin.ErrEmptyCategory) {
			respondError(w, http.StatusBadRequest, "invalid_category", "category name cannot be empty")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to rename category")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"category": req.Name})
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	if err := h.service.DeleteCategory(r.Context(), category); err != nil {
		if errors.Is(err, admin.ErrCategoryInUse) {
			respondError(w, http.StatusConflict, "category_in_use", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete category")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func adminErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, admin.ErrNameRequired):
		return "missing_name", true
	case errors.Is(err, admin.ErrPriceRequired):
		return "invalid_price", true
	case errors.Is(err, admin.ErrCategoryRequired):
		return "missing_category", true
	}
	return "", false
}
