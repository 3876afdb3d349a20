// Package httpapi exposes the placemarks persisted by pgstore over
// HTTP, in the same handler shape as the gateway this package is
// grounded on: one method per route, JSON in, JSON out.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devonrourke/kmlstream/internal/pgstore"
)

type Handlers struct {
	store *pgstore.Store
}

func NewHandlers(store *pgstore.Store) *Handlers {
	return &Handlers{store: store}
}

func (h *Handlers) ListPlacemarks(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 100)
	offset := intParam(r, "offset", 0)

	rows, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"placemarks": rows,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handlers) GetPlacemark(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	row, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "placemark not found")
		return
	}

	respondJSON(w, http.StatusOK, row)
}

func (h *Handlers) GetPlacemarksInBBox(w http.ResponseWriter, r *http.Request) {
	bbox := pgstore.BoundingBox{
		MinLon: floatParam(r, "min_lon", 0),
		MinLat: floatParam(r, "min_lat", 0),
		MaxLon: floatParam(r, "max_lon", 0),
		MaxLat: floatParam(r, "max_lat", 0),
	}
	limit := intParam(r, "limit", 1000)

	if bbox.MinLon == 0 && bbox.MinLat == 0 && bbox.MaxLon == 0 && bbox.MaxLat == 0 {
		respondError(w, http.StatusBadRequest, "missing bbox parameters")
		return
	}

	rows, err := h.store.GetInBBox(r.Context(), bbox, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"placemarks": rows,
		"bbox":       bbox,
		"count":      len(rows),
	})
}

func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func intParam(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func floatParam(r *http.Request, key string, fallback float64) float64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
