package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps bundles everything the route tree needs.
type RouterDeps struct {
	Cart     *CartHandler
	Catalog  *CatalogHandler
	Checkout *CheckoutHandler
	Contact  *ContactHandler
	Admin    *AdminHandler
	Auth     TokenVerifier

	// MediaDir serves uploaded product images; MediaPath is the URL
	// prefix they are published under.
	MediaDir  string
	MediaPath string

	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Gateway return pages need the shopper session to clear the cart
	// on approval.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)
		r.Get("/payment-success", deps.Checkout.PaymentSuccess)
		r.Get("/payment-failure", deps.Checkout.PaymentFailure)
		r.Get("/payment-pending", deps.Checkout.PaymentPending)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", deps.Catalog.ListProducts)
		r.Get("/products/{product_id}", deps.Catalog.GetProduct)
		r.Get("/categories", deps.Catalog.ListCategories)

		r.Post("/contact", deps.Contact.Submit)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Delete("/", deps.Cart.ClearCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", deps.Checkout.GetPhase)
				r.Post("/begin", deps.Checkout.Begin)
				r.Post("/back", deps.Checkout.Back)
				r.Post("/payment", deps.Checkout.Pay)
				r.Post("/order", deps.Checkout.SubmitOrder)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", deps.Admin.Login)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(deps.Auth))

				r.Get("/products", deps.Admin.ListProducts)
				r.Post("/products", deps.Admin.CreateProduct)
				r.Put("/products/{product_id}", deps.Admin.UpdateProduct)
				r.Delete("/products/{product_id}", deps.Admin.DeleteProduct)

				r.Post("/products/{product_id}/images", deps.Admin.UploadImage)
				r.Delete("/images/{image_id}", deps.Admin.DeleteImage)

				r.Get("/categories", deps.Admin.ListCategories)
				r.Put("/categories/{category}", deps.Admin.RenameCategory)
				r.Delete("/categories/{category}", deps.Admin.DeleteCategory)
			})
		})
	})

	if deps.MediaDir != "" {
		fileServer := http.StripPrefix(deps.MediaPath, http.FileServer(http.Dir(deps.MediaDir)))
		r.Get(deps.MediaPath+"*", func(w http.ResponseWriter, r *http.Request) {
			fileServer.ServeHTTP(w, r)
		})
	}

	return r
}
