package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/internal/storage"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

const proofPhotoBucket = "bukti"

// ProofService records handover evidence once an item has been collected.
type ProofService struct {
	db    *gorm.DB
	files *storage.FileStore
}

// NewProofService constructs a ProofService.
func NewProofService(db *gorm.DB, files *storage.FileStore) (*ProofService, error) {
	if db == nil {
		return nil, errors.New("proof service: db is required")
	}
	if files == nil {
		return nil, errors.New("proof service: file store is required")
	}
	return &ProofService{db: db, files: files}, nil
}

// Record stores a handover photo and closes the item. Admin only.
func (s *ProofService) Record(ctx context.Context, admin Actor, itemID string, photo *multipart.FileHeader, note string) (*models.PickupProof, error) {
	ctx = ensureContext(ctx)

	if !admin.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	if photo == nil {
		return nil, apperrors.NewBadRequest("Handover photo is required")
	}

	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("proof service: load item: %w", err)
	}

	photoURL, err := s.files.Save(proofPhotoBucket, photo)
	if err != nil {
		return nil, fmt.Errorf("proof service: store photo: %w", err)
	}

	proof := models.PickupProof{
		ItemID:   item.ID,
		AdminID:  admin.ID,
		PhotoURL: photoURL,
		Note:     strings.TrimSpace(note),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&proof).Error; err != nil {
			return fmt.Errorf("proof service: create proof: %w", err)
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("status", models.ItemStatusDone).Error; err != nil {
			return fmt.Errorf("proof service: close item: %w", err)
		}
		if err := notifyTx(tx, item.ReporterID, "Barang telah diambil", fmt.Sprintf("%q telah diserahkan. Bukti pengambilan tercatat.", item.Name)); err != nil {
			return fmt.Errorf("proof service: notify reporter: %w", err)
		}
		return activityTx(tx, &admin.ID, "proof.record", map[string]any{
			"id_barang": item.ID,
			"id_bukti":  proof.ID,
		})
	})
	if err != nil {
		_ = s.files.Remove(photoURL)
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Preload("Item").
		Preload("Admin").
		First(&proof, "id = ?", proof.ID).Error
	if err != nil {
		return nil, fmt.Errorf("proof service: reload proof: %w", err)
	}
	return &proof, nil
}
