package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/database/testutil"
	"github.com/campusfind/lostfound/internal/models"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

func newPickupFixture(t *testing.T) (*PickupService, *gorm.DB, *models.User, *models.User, *models.Item) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewPickupService(db)
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	requester := createTestUser(t, db, models.RoleStudent, "siti@kampus.ac.id", "2110567890")
	category := createTestCategory(t, db, "Aksesoris")
	item := createTestItem(t, db, reporter, category, models.ItemStatusOpen)

	return service, db, reporter, requester, item
}

func TestRequestPickup(t *testing.T) {
	service, db, reporter, requester, item := newPickupFixture(t)

	pickup, err := service.Request(context.Background(), actorFor(requester), item.ID, "Saya bisa ambil sore ini")
	require.NoError(t, err)
	require.Equal(t, models.PickupStatusPending, pickup.Status)

	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusInClaim, reloaded.Status)

	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("id_pengguna = ?", reporter.ID).Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)
}

func TestRequestPickupGuards(t *testing.T) {
	service, db, reporter, _, _ := newPickupFixture(t)

	_, err := service.Request(context.Background(), actorFor(reporter), "b6f9a3e2-0000-0000-0000-000000000000", "")
	require.ErrorIs(t, err, ErrItemNotFound)

	// The reporter of a lost item cannot request their own pickup.
	category := createTestCategory(t, db, "Elektronik")
	lost := models.Item{
		Name:        "HP Samsung",
		Description: "Hilang di kantin",
		ReportType:  models.ReportTypeLost,
		Status:      models.ItemStatusOpen,
		ReporterID:  reporter.ID,
		CategoryID:  category.ID,
	}
	require.NoError(t, db.Create(&lost).Error)

	_, err = service.Request(context.Background(), actorFor(reporter), lost.ID, "")
	require.ErrorIs(t, err, ErrSelfPickup)
}

func TestPickupDecision(t *testing.T) {
	service, db, _, requester, item := newPickupFixture(t)
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")

	pickup, err := service.Request(context.Background(), actorFor(requester), item.ID, "")
	require.NoError(t, err)

	// Only admins decide.
	_, err = service.UpdateStatus(context.Background(), actorFor(requester), pickup.ID, models.PickupStatusApproved)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	approved, err := service.UpdateStatus(context.Background(), actorFor(admin), pickup.ID, models.PickupStatusApproved)
	require.NoError(t, err)
	require.Equal(t, models.PickupStatusApproved, approved.Status)

	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusDone, reloaded.Status)
}

func TestPickupRejectionReopensItem(t *testing.T) {
	service, db, _, requester, item := newPickupFixture(t)
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")

	pickup, err := service.Request(context.Background(), actorFor(requester), item.ID, "")
	require.NoError(t, err)

	rejected, err := service.UpdateStatus(context.Background(), actorFor(admin), pickup.ID, models.PickupStatusRejected)
	require.NoError(t, err)
	require.Equal(t, models.PickupStatusRejected, rejected.Status)

	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusOpen, reloaded.Status)

	_, err = service.UpdateStatus(context.Background(), actorFor(admin), pickup.ID, "ngawur")
	require.Error(t, err)
}

func TestListPickupsScoping(t *testing.T) {
	service, db, reporter, requester, item := newPickupFixture(t)
	stranger := createTestUser(t, db, models.RoleStudent, "andi@kampus.ac.id", "2110599999")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")

	_, err := service.Request(context.Background(), actorFor(requester), item.ID, "")
	require.NoError(t, err)

	for _, actor := range []Actor{actorFor(admin), actorFor(requester), actorFor(reporter)} {
		pickups, err := service.List(context.Background(), actor)
		require.NoError(t, err)
		require.Len(t, pickups, 1)
	}

	pickups, err := service.List(context.Background(), actorFor(stranger))
	require.NoError(t, err)
	require.Empty(t, pickups)
}
