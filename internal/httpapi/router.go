package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/devonrourke/kmlstream/internal/pgstore"
)

// NewRouter builds the full kmlserve route table: CORS-wrapped,
// request-logged, with the placemark query endpoints backed by store
// and a KML upload endpoint that streams its parse as NDJSON.
func NewRouter(store *pgstore.Store) http.Handler {
	h := NewHandlers(store)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/placemarks", func(r chi.Router) {
		r.Get("/", h.ListPlacemarks)
		r.Get("/{id}", h.GetPlacemark)
		r.Get("/bbox", h.GetPlacemarksInBBox)
	})
	r.Get("/stats", h.GetStats)
	r.Post("/upload", h.StreamUpload)

	return r
}
