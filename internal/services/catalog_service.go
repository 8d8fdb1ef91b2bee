package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
)

// CatalogService manages the category and location reference tables.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(db *gorm.DB) (*CatalogService, error) {
	if db == nil {
		return nil, errors.New("catalog service: db is required")
	}
	return &CatalogService{db: db}, nil
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx = ensureContext(ctx)

	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("nama_kategori ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list categories: %w", err)
	}
	return categories, nil
}

// GetCategory loads a category by id.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	ctx = ensureContext(ctx)

	var category models.Category
	err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog service: load category: %w", err)
	}
	return &category, nil
}

// CreateCategory adds a category with a unique name.
func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*models.Category, error) {
	ctx = ensureContext(ctx)

	category := models.Category{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("catalog service: create category: %w", err)
	}
	return &category, nil
}

// UpdateCategory renames or redescribes a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id, name, description string) (*models.Category, error) {
	ctx = ensureContext(ctx)

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		category.Description = description
	}
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("catalog service: update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category unless items still reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	var inUse int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).Where("id_kategori = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("catalog service: check category usage: %w", err)
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}

	if err := s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("catalog service: delete category: %w", err)
	}
	return nil
}

// ListLocations returns all locations ordered by name.
func (s *CatalogService) ListLocations(ctx context.Context) ([]models.Location, error) {
	ctx = ensureContext(ctx)

	var locations []models.Location
	if err := s.db.WithContext(ctx).Order("nama_lokasi ASC").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("catalog service: list locations: %w", err)
	}
	return locations, nil
}

// GetLocation loads a location by id.
func (s *CatalogService) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	ctx = ensureContext(ctx)

	var location models.Location
	err := s.db.WithContext(ctx).First(&location, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog service: load location: %w", err)
	}
	return &location, nil
}

// CreateLocation adds a location with a unique name.
func (s *CatalogService) CreateLocation(ctx context.Context, name, description string) (*models.Location, error) {
	ctx = ensureContext(ctx)

	location := models.Location{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("catalog service: create location: %w", err)
	}
	return &location, nil
}

// UpdateLocation renames or redescribes a location.
func (s *CatalogService) UpdateLocation(ctx context.Context, id, name, description string) (*models.Location, error) {
	ctx = ensureContext(ctx)

	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		location.Name = name
	}
	if description = strings.TrimSpace(description); description != "" {
		location.Description = description
	}
	if err := s.db.WithContext(ctx).Save(location).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("catalog service: update location: %w", err)
	}
	return location, nil
}

// DeleteLocation removes a location unless items still reference it.
func (s *CatalogService) DeleteLocation(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}

	var inUse int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).Where("id_lokasi = ?", id).Count(&inUse).Error; err != nil {
		return fmt.Errorf("catalog service: check location usage: %w", err)
	}
	if inUse > 0 {
		return ErrLocationInUse
	}

	if err := s.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("catalog service: delete location: %w", err)
	}
	return nil
}
