package service

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/catalog"
	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// CatalogService answers course lookups against a fixed catalog.
type CatalogService struct {
	items  []models.CatalogItem
	logger *zap.Logger
}

// NewCatalogService constructs the service. A nil catalog uses the built-in one.
func NewCatalogService(items []models.CatalogItem, logger *zap.Logger) *CatalogService {
	if items == nil {
		items = catalog.Default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{items: items, logger: logger}
}

// LoadCatalogFile reads an XLSX catalog from disk.
func LoadCatalogFile(path string) ([]models.CatalogItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	items, err := catalog.LoadXLSX(f)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("catalog file has no usable rows")
	}
	return items, nil
}

// Search returns up to eight best matches for query.
func (s *CatalogService) Search(query string) []models.CatalogItem {
	results := catalog.Search(query, s.items)
	s.logger.Debug("catalog search", zap.String("query", query), zap.Int("results", len(results)))
	return results
}

// Size reports the number of catalog entries.
func (s *CatalogService) Size() int {
	return len(s.items)
}
