package router

import (
	"net/http"

	"product-intel/internal/auth"
	"product-intel/internal/handler"
	"product-intel/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	catalogHandler *handler.CatalogHandler,
	compareHandler *handler.CompareHandler,
	extractHandler *handler.ExtractHandler,
	keys auth.KeyStore,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("POST /api/products/query", productHandler.Query)
	mux.HandleFunc("GET /api/products/{id}", productHandler.Get)
	mux.HandleFunc("PUT /api/products/{id}", productHandler.Update)
	mux.HandleFunc("DELETE /api/products/{id}", productHandler.Delete)

	mux.HandleFunc("GET /api/vendors", catalogHandler.ListVendors)
	mux.HandleFunc("POST /api/vendors", catalogHandler.SaveVendor)
	mux.HandleFunc("GET /api/vendors/{id}", catalogHandler.GetVendor)
	mux.HandleFunc("DELETE /api/vendors/{id}", catalogHandler.DeleteVendor)

	mux.HandleFunc("GET /api/categories", catalogHandler.ListCategories)
	mux.HandleFunc("GET /api/categories/{id}", catalogHandler.GetCategory)
	mux.HandleFunc("GET /api/categories/{id}/attributes", catalogHandler.FilterableAttributes)

	mux.HandleFunc("POST /api/comparisons", compareHandler.Create)
	mux.HandleFunc("POST /api/comparisons/preview", compareHandler.Preview)
	mux.HandleFunc("GET /api/comparisons/{id}/pdf", compareHandler.GetPDF)

	mux.HandleFunc("POST /api/extractions", extractHandler.Extract)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(keys, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
