package handler

import (
	"net/http"
	"strconv"

	"github.com/jamesboogie/storefront-api/internal/locations"
)

// LocationsHandler serves the embedded region hierarchy.
type LocationsHandler struct {
	store *locations.Store
}

func NewLocationsHandler(store *locations.Store) *LocationsHandler {
	return &LocationsHandler{store: store}
}

func (h *LocationsHandler) Provinces(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Provinces())
}

func (h *LocationsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	id, ok := parentID(w, r, "province_id", "Province ID required")
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.store.Cities(id))
}

func (h *LocationsHandler) Districts(w http.ResponseWriter, r *http.Request) {
	id, ok := parentID(w, r, "city_id", "City ID required")
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.store.Districts(id))
}

func (h *LocationsHandler) Subdistricts(w http.ResponseWriter, r *http.Request) {
	id, ok := parentID(w, r, "district_id", "District ID required")
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, h.store.Subdistricts(id))
}

func parentID(w http.ResponseWriter, r *http.Request, param, missingMsg string) (int, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		respondError(w, http.StatusBadRequest, missingMsg)
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}
