package category

import (
	"photogallery/internal/domain"
	"photogallery/internal/storage"
)

type Service struct {
	layout *storage.Layout
}

func NewService(layout *storage.Layout) *Service {
	return &Service{layout: layout}
}

// Create makes the category directory, idempotently, and returns the
// sanitized name actually used on disk.
func (s *Service) Create(name string) (string, error) {
	return s.layout.EnsureCategory(name)
}

// Delete removes the category with all tiers and items. Idempotent.
func (s *Service) Delete(name string) error {
	return s.layout.DeleteCategory(name)
}

func (s *Service) List() ([]string, error) {
	return s.layout.ListCategories()
}

// ListItems returns the filenames stored in one tier of a category. An
// absent tier directory lists as empty.
func (s *Service) ListItems(name string, tier domain.Tier) ([]string, error) {
	return s.layout.ListItems(name, tier)
}
