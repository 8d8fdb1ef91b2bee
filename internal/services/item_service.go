package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/internal/storage"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/metrics"
)

const (
	itemDefaultPerPage = 12
	itemMaxPerPage     = 50

	itemImageBucket = "barang"
)

// ItemInput carries the writable fields of a lost/found report.
type ItemInput struct {
	Name        string
	Description string
	ReportType  string
	CategoryID  string
	LocationID  *string
	OccurredOn  *time.Time
}

// ItemFilter narrows and paginates item listings.
type ItemFilter struct {
	ReportType string
	Status     string
	Query      string
	Page       int
	PerPage    int
}

// ItemService manages lost/found reports and their photos.
type ItemService struct {
	db    *gorm.DB
	files *storage.FileStore
}

// NewItemService constructs an ItemService.
func NewItemService(db *gorm.DB, files *storage.FileStore) (*ItemService, error) {
	if db == nil {
		return nil, errors.New("item service: db is required")
	}
	if files == nil {
		return nil, errors.New("item service: file store is required")
	}
	return &ItemService{db: db, files: files}, nil
}

// Create stores a new report. Admin-authored reports are published
// immediately; student reports wait for verification.
func (s *ItemService) Create(ctx context.Context, actor Actor, input ItemInput, mainImage *multipart.FileHeader, extraPhotos []*multipart.FileHeader) (*models.Item, error) {
	ctx = ensureContext(ctx)

	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if input.LocationID != nil {
		if err := s.ensureLocationExists(ctx, *input.LocationID); err != nil {
			return nil, err
		}
	}

	status := models.ItemStatusPending
	if actor.IsAdmin() {
		status = models.ItemStatusOpen
	}

	item := models.Item{
		Name:               strings.TrimSpace(input.Name),
		Description:        strings.TrimSpace(input.Description),
		ReportType:         input.ReportType,
		Status:             status,
		VerificationStatus: models.VerificationNone,
		OccurredOn:         input.OccurredOn,
		ReporterID:         actor.ID,
		CategoryID:         input.CategoryID,
		LocationID:         input.LocationID,
	}

	stored, err := s.storeImages(mainImage, extraPhotos)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 && mainImage != nil {
		item.ImageURL = stored[0]
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("item service: create item: %w", err)
		}

		extras := stored
		if mainImage != nil {
			extras = stored[1:]
		}
		for _, url := range extras {
			photo := models.ItemPhoto{ItemID: item.ID, URL: url}
			if err := tx.Create(&photo).Error; err != nil {
				return fmt.Errorf("item service: create photo: %w", err)
			}
		}

		return activityTx(tx, &actor.ID, "item.create", map[string]any{
			"id_barang":    item.ID,
			"nama_barang":  item.Name,
			"tipe_laporan": item.ReportType,
		})
	})
	if err != nil {
		s.removeFiles(stored)
		return nil, err
	}

	metrics.ReportsCreated.WithLabelValues(item.ReportType).Inc()
	return s.Get(ctx, actor, item.ID)
}

// List returns reports visible to the viewer. Admins see everything with
// pending reports surfaced first; students see published reports plus their
// own regardless of status.
func (s *ItemService) List(ctx context.Context, viewer Actor, filter ItemFilter) ([]models.Item, int64, error) {
	ctx = ensureContext(ctx)
	page, perPage := normalisePage(filter.Page, filter.PerPage, itemDefaultPerPage, itemMaxPerPage)

	query := s.db.WithContext(ctx).Model(&models.Item{})
	if !viewer.IsAdmin() {
		// Students only see published items plus their own reports. Items in
		// the claim process or already closed stay between their parties.
		query = query.Where("(status = ? OR id_pelapor = ?)", models.ItemStatusOpen, viewer.ID)
	}
	if filter.ReportType != "" {
		query = query.Where("tipe_laporan = ?", filter.ReportType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(nama_barang) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("item service: count items: %w", err)
	}

	order := "created_at DESC"
	if viewer.IsAdmin() {
		order = "CASE WHEN status = 'pending' THEN 0 ELSE 1 END, created_at DESC"
	}

	var items []models.Item
	err := query.
		Preload("Reporter").
		Preload("Category").
		Preload("Location").
		Preload("Photos").
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("item service: list items: %w", err)
	}
	return items, total, nil
}

// Get loads a single report with its relations.
func (s *ItemService) Get(ctx context.Context, _ Actor, id string) (*models.Item, error) {
	ctx = ensureContext(ctx)

	var item models.Item
	err := s.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Category").
		Preload("Location").
		Preload("Photos").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("item service: load item: %w", err)
	}
	return &item, nil
}

// Update edits a report. Only the reporter or an admin may do so. Replacing
// the main image removes the old file once the row is saved.
func (s *ItemService) Update(ctx context.Context, actor Actor, id string, input ItemInput, newImage *multipart.FileHeader) (*models.Item, error) {
	ctx = ensureContext(ctx)

	item, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if item.ReporterID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if input.CategoryID != "" && input.CategoryID != item.CategoryID {
		if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = input.CategoryID
	}
	if input.LocationID != nil {
		if err := s.ensureLocationExists(ctx, *input.LocationID); err != nil {
			return nil, err
		}
		item.LocationID = input.LocationID
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		item.Description = desc
	}
	if input.ReportType != "" {
		item.ReportType = input.ReportType
	}
	if input.OccurredOn != nil {
		item.OccurredOn = input.OccurredOn
	}

	oldImage := ""
	if newImage != nil {
		url, err := s.files.Save(itemImageBucket, newImage)
		if err != nil {
			return nil, fmt.Errorf("item service: store image: %w", err)
		}
		oldImage = item.ImageURL
		item.ImageURL = url
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		if newImage != nil {
			_ = s.files.Remove(item.ImageURL)
		}
		return nil, fmt.Errorf("item service: update item: %w", err)
	}
	if oldImage != "" {
		_ = s.files.Remove(oldImage)
	}

	return s.Get(ctx, actor, id)
}

// Verify publishes a pending student report. Admin only.
func (s *ItemService) Verify(ctx context.Context, admin Actor, id string) (*models.Item, error) {
	ctx = ensureContext(ctx)

	if !admin.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	item, err := s.Get(ctx, admin, id)
	if err != nil {
		return nil, err
	}
	if item.Status != models.ItemStatusPending {
		return nil, ErrItemNotPending
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":            models.ItemStatusOpen,
			"status_verifikasi": models.VerificationNone,
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("item service: verify item: %w", err)
		}
		if err := notifyTx(tx, item.ReporterID, "Laporan diverifikasi", fmt.Sprintf("Laporan %q telah diverifikasi dan dipublikasikan.", item.Name)); err != nil {
			return fmt.Errorf("item service: notify reporter: %w", err)
		}
		return activityTx(tx, &admin.ID, "item.verify", map[string]any{"id_barang": id})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, admin, id)
}

// Delete removes a report together with its claims, pickups, proofs, and
// photos. Files come off disk only after the transaction commits.
func (s *ItemService) Delete(ctx context.Context, actor Actor, id string) error {
	ctx = ensureContext(ctx)

	item, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if item.ReporterID != actor.ID && !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	var files []string
	if item.ImageURL != "" {
		files = append(files, item.ImageURL)
	}
	for _, photo := range item.Photos {
		files = append(files, photo.URL)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var claims []models.Claim
		if err := tx.Where("id_barang = ?", id).Find(&claims).Error; err != nil {
			return fmt.Errorf("item service: load claims: %w", err)
		}
		for _, claim := range claims {
			if claim.EvidenceURL != "" {
				files = append(files, claim.EvidenceURL)
			}
		}

		var proofs []models.PickupProof
		if err := tx.Where("id_barang = ?", id).Find(&proofs).Error; err != nil {
			return fmt.Errorf("item service: load proofs: %w", err)
		}
		for _, proof := range proofs {
			if proof.PhotoURL != "" {
				files = append(files, proof.PhotoURL)
			}
		}

		for _, model := range []any{
			&models.Claim{}, &models.Pickup{}, &models.PickupProof{}, &models.ItemPhoto{},
		} {
			if err := tx.Where("id_barang = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("item service: delete dependents: %w", err)
			}
		}
		if err := tx.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("item service: delete item: %w", err)
		}

		return activityTx(tx, &actor.ID, "item.delete", map[string]any{
			"id_barang":   id,
			"nama_barang": item.Name,
		})
	})
	if err != nil {
		return err
	}

	s.removeFiles(files)
	return nil
}

func (s *ItemService) ensureCategoryExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("item service: check category: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *ItemService) ensureLocationExists(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Location{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("item service: check location: %w", err)
	}
	if count == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// storeImages writes the main image (first, when present) and extra photos.
// On any failure everything already written is removed.
func (s *ItemService) storeImages(main *multipart.FileHeader, extras []*multipart.FileHeader) ([]string, error) {
	var stored []string

	save := func(file *multipart.FileHeader) error {
		url, err := s.files.Save(itemImageBucket, file)
		if err != nil {
			return fmt.Errorf("item service: store image: %w", err)
		}
		stored = append(stored, url)
		return nil
	}

	if main != nil {
		if err := save(main); err != nil {
			return nil, err
		}
	}
	for _, file := range extras {
		if file == nil {
			continue
		}
		if err := save(file); err != nil {
			s.removeFiles(stored)
			return nil, err
		}
	}
	return stored, nil
}

func (s *ItemService) removeFiles(urls []string) {
	for _, url := range urls {
		_ = s.files.Remove(url)
	}
}
