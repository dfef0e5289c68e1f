package application

import (
	"context"
	"fmt"
	"log/slog"
)

// CatalogReader exposes the read-only venue and batch reference data the
// admin UI browses and the scheduler validates against.
type CatalogReader interface {
	GetVenue(ctx context.Context, id string) (Venue, error)
	ListVenues(ctx context.Context) ([]Venue, error)
	GetBatch(ctx context.Context, id string) (Batch, error)
	ListBatches(ctx context.Context) ([]Batch, error)
}

// CatalogService is a thin read-only facade over the reference tables. The
// records themselves are owned by the wider admin platform.
type CatalogService struct {
	catalog CatalogReader
	logger  *slog.Logger
}

// NewCatalogService wires the catalog reader.
func NewCatalogService(catalog CatalogReader) *CatalogService {
	return NewCatalogServiceWithLogger(catalog, nil)
}

// NewCatalogServiceWithLogger wires the catalog reader plus a base logger.
func NewCatalogServiceWithLogger(catalog CatalogReader, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: defaultLogger(logger)}
}

// GetVenue fetches one venue.
func (s *CatalogService) GetVenue(ctx context.Context, principal Principal, id string) (Venue, error) {
	if s == nil {
		return Venue{}, fmt.Errorf("CatalogService is nil")
	}
	if !principal.Authenticated() {
		return Venue{}, ErrUnauthorized
	}
	venue, err := s.catalog.GetVenue(ctx, id)
	if err != nil {
		return Venue{}, mapStoreError(err)
	}
	return venue, nil
}

// ListVenues enumerates the venue catalog.
func (s *CatalogService) ListVenues(ctx context.Context, principal Principal) ([]Venue, error) {
	if s == nil {
		return nil, fmt.Errorf("CatalogService is nil")
	}
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	venues, err := s.catalog.ListVenues(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return venues, nil
}

// GetBatch fetches one training batch.
func (s *CatalogService) GetBatch(ctx context.Context, principal Principal, id string) (Batch, error) {
	if s == nil {
		return Batch{}, fmt.Errorf("CatalogService is nil")
	}
	if !principal.Authenticated() {
		return Batch{}, ErrUnauthorized
	}
	batch, err := s.catalog.GetBatch(ctx, id)
	if err != nil {
		return Batch{}, mapStoreError(err)
	}
	return batch, nil
}

// ListBatches enumerates the training batch catalog.
func (s *CatalogService) ListBatches(ctx context.Context, principal Principal) ([]Batch, error) {
	if s == nil {
		return nil, fmt.Errorf("CatalogService is nil")
	}
	if !principal.Authenticated() {
		return nil, ErrUnauthorized
	}
	batches, err := s.catalog.ListBatches(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return batches, nil
}
