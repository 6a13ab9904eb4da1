package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/receipt-processor/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса обработки чеков.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.CORS(h.opts.AllowedOrigin))
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/health", h.Health)

	r.Route("/api/receipts", func(r chi.Router) {
		r.Post("/process", h.ProcessReceipt)
		r.Get("/{id}/points", h.GetPoints)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
