package httpapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/devonrourke/kmlstream"
)

// ndjsonPlacemark is the one-line-per-placemark wire shape this
// endpoint streams: attrs verbatim, geoms through the GeoJSON adapter.
type ndjsonPlacemark struct {
	Attrs map[string]string           `json:"attrs"`
	Geoms []kmlstream.GeoJSONGeometry `json:"geoms"`
}

// StreamUpload parses the request body as KML and writes one NDJSON
// line per placemark as soon as each batch is assembled, flushing after
// every line so a large upload streams to the client instead of
// buffering server-side.
func (h *Handlers) StreamUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, canFlush := w.(http.Flusher)

	enc := json.NewEncoder(w)
	wroteHeader := false

	for pm, err := range kmlstream.Stream(r.Context(), r.Body, kmlstream.ParseOptions{}) {
		if err != nil {
			if !wroteHeader {
				respondError(w, http.StatusUnprocessableEntity, err.Error())
			} else {
				log.Printf("kmlserve: stream interrupted mid-response: %v", err)
			}
			return
		}
		if !wroteHeader {
			w.WriteHeader(http.StatusOK)
			wroteHeader = true
		}

		geoms := make([]kmlstream.GeoJSONGeometry, 0, len(pm.Geoms))
		for _, g := range pm.Geoms {
			if gj, ok := kmlstream.ToGeoJSON(g); ok {
				geoms = append(geoms, gj)
			}
		}
		if err := enc.Encode(ndjsonPlacemark{Attrs: pm.Attrs, Geoms: geoms}); err != nil {
			log.Printf("kmlserve: write ndjson line: %v", err)
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}
}
