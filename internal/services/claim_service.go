package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/internal/storage"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
	"github.com/campusfind/lostfound/pkg/metrics"
)

const claimEvidenceBucket = "klaim"

// ClaimInput carries the fields of a new finder claim.
type ClaimInput struct {
	ItemID        string
	FoundLocation string
	Description   string
}

// ClaimService manages finder claims and their owner/admin adjudication.
type ClaimService struct {
	db    *gorm.DB
	files *storage.FileStore
}

// NewClaimService constructs a ClaimService.
func NewClaimService(db *gorm.DB, files *storage.FileStore) (*ClaimService, error) {
	if db == nil {
		return nil, errors.New("claim service: db is required")
	}
	if files == nil {
		return nil, errors.New("claim service: file store is required")
	}
	return &ClaimService{db: db, files: files}, nil
}

// File records a claim against an item. Reporters cannot claim their own
// reports and each user may file at most one claim per item.
func (s *ClaimService) File(ctx context.Context, claimant Actor, input ClaimInput, evidence *multipart.FileHeader) (*models.Claim, error) {
	ctx = ensureContext(ctx)

	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "id = ?", input.ItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("claim service: load item: %w", err)
	}
	if item.ReporterID == claimant.ID {
		return nil, ErrSelfClaim
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.Claim{}).
		Where("id_barang = ? AND id_penemu = ?", item.ID, claimant.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("claim service: check duplicate: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateClaim
	}

	evidenceURL := ""
	if evidence != nil {
		evidenceURL, err = s.files.Save(claimEvidenceBucket, evidence)
		if err != nil {
			return nil, fmt.Errorf("claim service: store evidence: %w", err)
		}
	}

	claim := models.Claim{
		ItemID:        item.ID,
		ClaimantID:    claimant.ID,
		FoundLocation: strings.TrimSpace(input.FoundLocation),
		Description:   strings.TrimSpace(input.Description),
		EvidenceURL:   evidenceURL,
		Status:        models.ClaimStatusAwaitingOwner,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&claim).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateClaim
			}
			return fmt.Errorf("claim service: create claim: %w", err)
		}

		updates := map[string]any{
			"status":            models.ItemStatusInClaim,
			"status_verifikasi": models.VerificationAwaitingOwner,
		}
		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("claim service: update item: %w", err)
		}

		if err := notifyTx(tx, item.ReporterID, "Klaim penemuan baru", fmt.Sprintf("Seseorang mengaku menemukan %q. Periksa klaimnya.", item.Name)); err != nil {
			return fmt.Errorf("claim service: notify reporter: %w", err)
		}
		return activityTx(tx, &claimant.ID, "claim.file", map[string]any{
			"id_barang": item.ID,
			"id_klaim":  claim.ID,
		})
	})
	if err != nil {
		if evidenceURL != "" {
			_ = s.files.Remove(evidenceURL)
		}
		return nil, err
	}

	metrics.ClaimsFiled.WithLabelValues("filed").Inc()
	return s.get(ctx, claim.ID)
}

// UpdateStatus moves a claim through its adjudication lifecycle. Owner
// decisions are restricted to the item's reporter; admin decisions to admins.
func (s *ClaimService) UpdateStatus(ctx context.Context, actor Actor, claimID, newStatus string) (*models.Claim, error) {
	ctx = ensureContext(ctx)

	claim, err := s.get(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Item == nil {
		return nil, fmt.Errorf("claim service: claim %s has no item", claimID)
	}
	if claim.Item.ReporterID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	switch newStatus {
	case models.ClaimStatusAcceptedByOwner:
		err = s.accept(ctx, actor, claim)
	case models.ClaimStatusRejectedByOwner, models.ClaimStatusRejectedByAdmin:
		err = s.reject(ctx, actor, claim, newStatus)
	case models.ClaimStatusValidatedByAdmin:
		if !actor.IsAdmin() {
			return nil, apperrors.ErrForbidden
		}
		err = s.validate(ctx, actor, claim)
	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("Unknown claim status %q", newStatus))
	}
	if err != nil {
		return nil, err
	}
	return s.get(ctx, claimID)
}

// accept marks the claim as accepted by the owner. The item row is locked for
// the duration of the transaction so two concurrent accepts cannot both win.
func (s *ClaimService) accept(ctx context.Context, actor Actor, claim *models.Claim) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "id = ?", claim.ItemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("claim service: lock item: %w", err)
		}

		var accepted int64
		err = tx.Model(&models.Claim{}).
			Where("id_barang = ? AND status_klaim = ? AND id <> ?", item.ID, models.ClaimStatusAcceptedByOwner, claim.ID).
			Count(&accepted).Error
		if err != nil {
			return fmt.Errorf("claim service: check accepted: %w", err)
		}
		if accepted > 0 {
			return ErrClaimAlreadyAccepted
		}

		if err := tx.Model(&models.Claim{}).Where("id = ?", claim.ID).
			Update("status_klaim", models.ClaimStatusAcceptedByOwner).Error; err != nil {
			return fmt.Errorf("claim service: accept claim: %w", err)
		}

		// Every other pending claim on the item loses automatically.
		if err := tx.Model(&models.Claim{}).
			Where("id_barang = ? AND status_klaim = ? AND id <> ?", item.ID, models.ClaimStatusAwaitingOwner, claim.ID).
			Update("status_klaim", models.ClaimStatusRejectedByOwner).Error; err != nil {
			return fmt.Errorf("claim service: reject others: %w", err)
		}

		if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).
			Update("status_verifikasi", models.VerificationAccepted).Error; err != nil {
			return fmt.Errorf("claim service: update item: %w", err)
		}

		if err := notifyTx(tx, claim.ClaimantID, "Klaim diterima", fmt.Sprintf("Klaim Anda atas %q diterima oleh pemilik.", item.Name)); err != nil {
			return fmt.Errorf("claim service: notify claimant: %w", err)
		}
		if err := activityTx(tx, &actor.ID, "claim.accept", map[string]any{"id_klaim": claim.ID}); err != nil {
			return err
		}

		metrics.ClaimsFiled.WithLabelValues("accepted").Inc()
		return nil
	})
}

func (s *ClaimService) reject(ctx context.Context, actor Actor, claim *models.Claim, newStatus string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Claim{}).Where("id = ?", claim.ID).
			Update("status_klaim", newStatus).Error; err != nil {
			return fmt.Errorf("claim service: reject claim: %w", err)
		}

		// With no pending and no accepted claims left the item goes back on
		// the board.
		var remaining int64
		err := tx.Model(&models.Claim{}).
			Where("id_barang = ? AND status_klaim IN ?", claim.ItemID, []string{
				models.ClaimStatusAwaitingOwner,
				models.ClaimStatusAcceptedByOwner,
				models.ClaimStatusValidatedByAdmin,
			}).
			Count(&remaining).Error
		if err != nil {
			return fmt.Errorf("claim service: count remaining: %w", err)
		}
		if remaining == 0 {
			updates := map[string]any{
				"status":            models.ItemStatusOpen,
				"status_verifikasi": models.VerificationNone,
			}
			if err := tx.Model(&models.Item{}).Where("id = ?", claim.ItemID).Updates(updates).Error; err != nil {
				return fmt.Errorf("claim service: reset item: %w", err)
			}
		}

		itemName := ""
		if claim.Item != nil {
			itemName = claim.Item.Name
		}
		if err := notifyTx(tx, claim.ClaimantID, "Klaim ditolak", fmt.Sprintf("Klaim Anda atas %q ditolak.", itemName)); err != nil {
			return fmt.Errorf("claim service: notify claimant: %w", err)
		}
		if err := activityTx(tx, &actor.ID, "claim.reject", map[string]any{
			"id_klaim":     claim.ID,
			"status_klaim": newStatus,
		}); err != nil {
			return err
		}

		metrics.ClaimsFiled.WithLabelValues("rejected").Inc()
		return nil
	})
}

func (s *ClaimService) validate(ctx context.Context, actor Actor, claim *models.Claim) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Claim{}).Where("id = ?", claim.ID).
			Update("status_klaim", models.ClaimStatusValidatedByAdmin).Error; err != nil {
			return fmt.Errorf("claim service: validate claim: %w", err)
		}

		itemName := ""
		if claim.Item != nil {
			itemName = claim.Item.Name
		}
		if err := notifyTx(tx, claim.ClaimantID, "Klaim divalidasi", fmt.Sprintf("Klaim Anda atas %q divalidasi oleh admin. Silakan atur pengambilan.", itemName)); err != nil {
			return fmt.Errorf("claim service: notify claimant: %w", err)
		}
		return activityTx(tx, &actor.ID, "claim.validate", map[string]any{"id_klaim": claim.ID})
	})
}

// List returns claims visible to the viewer. An explicit item filter skips
// the role scoping so a reporter can review all claims on their item.
func (s *ClaimService) List(ctx context.Context, viewer Actor, itemID string) ([]models.Claim, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Claim{})
	if itemID != "" {
		query = query.Where("id_barang = ?", itemID)
	} else if !viewer.IsAdmin() {
		query = query.Where(
			"(id_penemu = ? OR id_barang IN (?))",
			viewer.ID,
			s.db.Model(&models.Item{}).Select("id").Where("id_pelapor = ?", viewer.ID),
		)
	}

	var claims []models.Claim
	err := query.
		Preload("Item").
		Preload("Item.Reporter").
		Preload("Item.Category").
		Preload("Item.Location").
		Preload("Claimant").
		Order("created_at DESC").
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("claim service: list claims: %w", err)
	}
	return claims, nil
}

func (s *ClaimService) get(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.db.WithContext(ctx).
		Preload("Item").
		Preload("Item.Reporter").
		Preload("Claimant").
		First(&claim, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClaimNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("claim service: load claim: %w", err)
	}
	return &claim, nil
}
