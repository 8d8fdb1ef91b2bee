package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

// PickupService manages requests to physically collect an item.
type PickupService struct {
	db *gorm.DB
}

// NewPickupService constructs a PickupService.
func NewPickupService(db *gorm.DB) (*PickupService, error) {
	if db == nil {
		return nil, errors.New("pickup service: db is required")
	}
	return &PickupService{db: db}, nil
}

// Request files a pickup request for an item. The reporter of a lost item
// cannot request to pick up their own report.
func (s *PickupService) Request(ctx context.Context, requester Actor, itemID, message string) (*models.Pickup, error) {
	ctx = ensureContext(ctx)

	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pickup service: load item: %w", err)
	}
	if item.ReportType == models.ReportTypeLost && item.ReporterID == requester.ID {
		return nil, ErrSelfPickup
	}

	pickup := models.Pickup{
		ItemID:      item.ID,
		RequesterID: requester.ID,
		Message:     strings.TrimSpace(message),
		Status:      models.PickupStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pickup).Error; err != nil {
			return fmt.Errorf("pickup service: create pickup: %w", err)
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("status", models.ItemStatusInClaim).Error; err != nil {
			return fmt.Errorf("pickup service: update item: %w", err)
		}
		if err := notifyTx(tx, item.ReporterID, "Permintaan pengambilan", fmt.Sprintf("Ada permintaan pengambilan untuk %q.", item.Name)); err != nil {
			return fmt.Errorf("pickup service: notify reporter: %w", err)
		}
		return activityTx(tx, &requester.ID, "pickup.request", map[string]any{
			"id_barang":      item.ID,
			"id_pengambilan": pickup.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, pickup.ID)
}

// UpdateStatus approves or rejects a pickup request. Admin only. Approval
// closes the item; rejection reopens it.
func (s *PickupService) UpdateStatus(ctx context.Context, admin Actor, pickupID, newStatus string) (*models.Pickup, error) {
	ctx = ensureContext(ctx)

	if !admin.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if newStatus != models.PickupStatusApproved && newStatus != models.PickupStatusRejected {
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Unknown pickup status %q", newStatus))
	}

	pickup, err := s.get(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	itemStatus := models.ItemStatusDone
	title, message := "Pengambilan disetujui", "Permintaan pengambilan untuk %q disetujui."
	if newStatus == models.PickupStatusRejected {
		itemStatus = models.ItemStatusOpen
		title, message = "Pengambilan ditolak", "Permintaan pengambilan untuk %q ditolak."
	}

	itemName := ""
	reporterID := ""
	if pickup.Item != nil {
		itemName = pickup.Item.Name
		reporterID = pickup.Item.ReporterID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Pickup{}).Where("id = ?", pickup.ID).
			Update("status_pengambilan", newStatus).Error; err != nil {
			return fmt.Errorf("pickup service: update pickup: %w", err)
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", pickup.ItemID).
			Update("status", itemStatus).Error; err != nil {
			return fmt.Errorf("pickup service: update item: %w", err)
		}
		if reporterID != "" {
			if err := notifyTx(tx, reporterID, title, fmt.Sprintf(message, itemName)); err != nil {
				return fmt.Errorf("pickup service: notify reporter: %w", err)
			}
		}
		if err := notifyTx(tx, pickup.RequesterID, title, fmt.Sprintf(message, itemName)); err != nil {
			return fmt.Errorf("pickup service: notify requester: %w", err)
		}
		return activityTx(tx, &admin.ID, "pickup.decide", map[string]any{
			"id_pengambilan":     pickup.ID,
			"status_pengambilan": newStatus,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.get(ctx, pickup.ID)
}

// List returns pickups visible to the viewer: everything for admins, own
// requests plus requests against own items for students.
func (s *PickupService) List(ctx context.Context, viewer Actor) ([]models.Pickup, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Pickup{})
	if !viewer.IsAdmin() {
		query = query.Where(
			"(id_pengambil = ? OR id_barang IN (?))",
			viewer.ID,
			s.db.Model(&models.Item{}).Select("id").Where("id_pelapor = ?", viewer.ID),
		)
	}

	var pickups []models.Pickup
	err := query.
		Preload("Item").
		Preload("Item.Reporter").
		Preload("Requester").
		Order("created_at DESC").
		Find(&pickups).Error
	if err != nil {
		return nil, fmt.Errorf("pickup service: list pickups: %w", err)
	}
	return pickups, nil
}

func (s *PickupService) get(ctx context.Context, id string) (*models.Pickup, error) {
	var pickup models.Pickup
	err := s.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Reporter").
		Preload("Requester").
		First(&pickup, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPickupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pickup service: load pickup: %w", err)
	}
	return &pickup, nil
}
