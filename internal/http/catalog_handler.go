package http

import (
	"net/http"

	"github.com/example/training-scheduler/internal/application"
)

// CatalogHandler serves the read-only venue and batch endpoints.
type CatalogHandler struct {
	catalog *application.CatalogService
}

// NewCatalogHandler wires the catalog service.
func NewCatalogHandler(catalog *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListVenues handles GET /api/venues.
func (h *CatalogHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := h.catalog.ListVenues(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	responses := make([]venueResponse, 0, len(venues))
	for _, venue := range venues {
		responses = append(responses, venueResponse{
			ID: venue.ID, Name: venue.Name, Room: venue.Room, Capacity: venue.Capacity,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetVenue handles GET /api/venues/{id}.
func (h *CatalogHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.catalog.GetVenue(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, venueResponse{
		ID: venue.ID, Name: venue.Name, Room: venue.Room, Capacity: venue.Capacity,
	})
}

// ListBatches handles GET /api/batches.
func (h *CatalogHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.catalog.ListBatches(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	responses := make([]batchResponse, 0, len(batches))
	for _, batch := range batches {
		responses = append(responses, batchResponse{
			ID: batch.ID, Name: batch.Name, DepartmentID: batch.DepartmentID,
			AcademicYear: batch.AcademicYear, Active: batch.Active,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetBatch handles GET /api/batches/{id}.
func (h *CatalogHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := h.catalog.GetBatch(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{
		ID: batch.ID, Name: batch.Name, DepartmentID: batch.DepartmentID,
		AcademicYear: batch.AcademicYear, Active: batch.Active,
	})
}
