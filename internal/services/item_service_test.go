package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusfind/lostfound/internal/database/testutil"
	"github.com/campusfind/lostfound/internal/models"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

func TestCreateItemStatusByRole(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	student := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Elektronik")

	input := ItemInput{
		Name:        "Flashdisk 64GB",
		Description: "Flashdisk hitam merk Sandisk",
		ReportType:  models.ReportTypeFound,
		CategoryID:  category.ID,
	}

	fromStudent, err := service.Create(context.Background(), actorFor(student), input, nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusPending, fromStudent.Status)
	require.Equal(t, models.VerificationNone, fromStudent.VerificationStatus)

	fromAdmin, err := service.Create(context.Background(), actorFor(admin), input, nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusOpen, fromAdmin.Status)

	// Item creation leaves an audit trail.
	var logs int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&logs).Error)
	require.EqualValues(t, 2, logs)
}

func TestCreateItemUnknownCategory(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	student := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")

	_, err = service.Create(context.Background(), actorFor(student), ItemInput{
		Name:        "Flashdisk",
		Description: "Flashdisk hitam",
		ReportType:  models.ReportTypeFound,
		CategoryID:  "b6f9a3e2-0000-0000-0000-000000000000",
	}, nil, nil)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreateItemStoresImages(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := newTestFileStore(t)
	service, err := NewItemService(db, store)
	require.NoError(t, err)

	student := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	category := createTestCategory(t, db, "Elektronik")

	item, err := service.Create(context.Background(), actorFor(student), ItemInput{
		Name:        "Flashdisk",
		Description: "Flashdisk hitam",
		ReportType:  models.ReportTypeFound,
		CategoryID:  category.ID,
	}, uploadedFile(t, "utama.jpg", "main"), nil)
	require.NoError(t, err)
	require.NotEmpty(t, item.ImageURL)
	require.True(t, store.Exists(item.ImageURL))
}

func TestListItemsScoping(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	other := createTestUser(t, db, models.RoleStudent, "siti@kampus.ac.id", "2110567890")
	stranger := createTestUser(t, db, models.RoleStudent, "andi@kampus.ac.id", "2110599999")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Elektronik")

	createTestItem(t, db, reporter, category, models.ItemStatusPending)
	createTestItem(t, db, reporter, category, models.ItemStatusOpen)
	createTestItem(t, db, reporter, category, models.ItemStatusInClaim)
	createTestItem(t, db, reporter, category, models.ItemStatusDone)
	createTestItem(t, db, other, category, models.ItemStatusPending)

	// Admin sees everything, pending reports first.
	items, total, err := service.List(context.Background(), actorFor(admin), ItemFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, items, 5)
	require.Equal(t, models.ItemStatusPending, items[0].Status)
	require.Equal(t, models.ItemStatusPending, items[1].Status)

	// The reporter sees all of their own items regardless of status.
	items, total, err = service.List(context.Background(), actorFor(reporter), ItemFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
	for _, item := range items {
		require.Equal(t, reporter.ID, item.ReporterID)
	}

	// Another student sees the published item plus their own pending one.
	_, total, err = service.List(context.Background(), actorFor(other), ItemFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	// An uninvolved student sees only the published item. Pending reports and
	// items in the claim process or already closed stay hidden.
	items, total, err = service.List(context.Background(), actorFor(stranger), ItemFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, models.ItemStatusOpen, items[0].Status)
}

func TestListItemsNameFilter(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	category := createTestCategory(t, db, "Elektronik")

	item := createTestItem(t, db, reporter, category, models.ItemStatusOpen)
	require.NoError(t, db.Model(item).Update("nama_barang", "Laptop Thinkpad").Error)
	createTestItem(t, db, reporter, category, models.ItemStatusOpen)

	items, total, err := service.List(context.Background(), actorFor(reporter), ItemFilter{Query: "thinkpad"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "Laptop Thinkpad", items[0].Name)
}

func TestGetItemNotFound(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	student := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	_, err = service.Get(context.Background(), actorFor(student), "b6f9a3e2-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateItemAuthorization(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	stranger := createTestUser(t, db, models.RoleStudent, "siti@kampus.ac.id", "2110567890")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Elektronik")
	item := createTestItem(t, db, reporter, category, models.ItemStatusOpen)

	_, err = service.Update(context.Background(), actorFor(stranger), item.ID, ItemInput{Name: "Disusupi"}, nil)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := service.Update(context.Background(), actorFor(reporter), item.ID, ItemInput{Name: "Dompet kulit hitam"}, nil)
	require.NoError(t, err)
	require.Equal(t, "Dompet kulit hitam", updated.Name)

	updated, err = service.Update(context.Background(), actorFor(admin), item.ID, ItemInput{Description: "Deskripsi dari admin"}, nil)
	require.NoError(t, err)
	require.Equal(t, "Deskripsi dari admin", updated.Description)
}

func TestVerifyItem(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewItemService(db, newTestFileStore(t))
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Elektronik")
	item := createTestItem(t, db, reporter, category, models.ItemStatusPending)

	_, err = service.Verify(context.Background(), actorFor(reporter), item.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	verified, err := service.Verify(context.Background(), actorFor(admin), item.ID)
	require.NoError(t, err)
	require.Equal(t, models.ItemStatusOpen, verified.Status)

	// The reporter gets notified.
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("id_pengguna = ?", reporter.ID).Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)

	// Verifying twice fails since the item is no longer pending.
	_, err = service.Verify(context.Background(), actorFor(admin), item.ID)
	require.ErrorIs(t, err, ErrItemNotPending)
}

func TestDeleteItemCascades(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := newTestFileStore(t)
	service, err := NewItemService(db, store)
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	claimant := createTestUser(t, db, models.RoleStudent, "siti@kampus.ac.id", "2110567890")
	category := createTestCategory(t, db, "Elektronik")
	item := createTestItem(t, db, reporter, category, models.ItemStatusOpen)

	claim := models.Claim{ItemID: item.ID, ClaimantID: claimant.ID, Status: models.ClaimStatusAwaitingOwner}
	require.NoError(t, db.Create(&claim).Error)
	pickup := models.Pickup{ItemID: item.ID, RequesterID: claimant.ID, Status: models.PickupStatusPending}
	require.NoError(t, db.Create(&pickup).Error)

	require.NoError(t, service.Delete(context.Background(), actorFor(reporter), item.ID))

	for _, count := range []struct {
		model any
		name  string
	}{
		{&models.Item{}, "barang"},
		{&models.Claim{}, "klaim"},
		{&models.Pickup{}, "pengambilan"},
	} {
		var n int64
		require.NoError(t, db.Model(count.model).Count(&n).Error)
		require.Zero(t, n, count.name)
	}

	_, err = service.Get(context.Background(), actorFor(reporter), item.ID)
	require.ErrorIs(t, err, ErrItemNotFound)
}
