package application

import (
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	"github.com/trattoria-luca/service-booking/internal/platform/apperr"
)

// CatalogService exposes the read-only package catalog.
type CatalogService struct {
	store *catalog.Store
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store *catalog.Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListPackages returns every package in display order.
func (s *CatalogService) ListPackages() []catalog.Package {
	return s.store.ListPackages()
}

// GetCatalog returns the menu or special-order catalog of a package.
func (s *CatalogService) GetCatalog(packageID string) (*catalog.Catalog, error) {
	c, ok := s.store.CatalogFor(packageID)
	if !ok {
		return nil, apperr.NewNotFoundError("Package", packageID)
	}
	return &c, nil
}

// ListAreas returns the rental venue areas.
func (s *CatalogService) ListAreas() []catalog.Area {
	return s.store.Areas()
}
