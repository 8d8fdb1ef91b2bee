package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campusfind/lostfound/internal/database/testutil"
	"github.com/campusfind/lostfound/internal/models"
	apperrors "github.com/campusfind/lostfound/pkg/errors"
)

func TestRecordProof(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := newTestFileStore(t)
	service, err := NewProofService(db, store)
	require.NoError(t, err)

	reporter := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Aksesoris")
	item := createTestItem(t, db, reporter, category, models.ItemStatusInClaim)

	proof, err := service.Record(context.Background(), actorFor(admin), item.ID, uploadedFile(t, "serah-terima.jpg", "photo"), "Diambil langsung oleh pemilik")
	require.NoError(t, err)
	require.Equal(t, admin.ID, proof.AdminID)
	require.True(t, store.Exists(proof.PhotoURL))
	require.False(t, proof.PickedUpAt.IsZero())

	var reloaded models.Item
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	require.Equal(t, models.ItemStatusDone, reloaded.Status)

	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).Where("id_pengguna = ?", reporter.ID).Count(&notifications).Error)
	require.EqualValues(t, 1, notifications)
}

func TestRecordProofGuards(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewProofService(db, newTestFileStore(t))
	require.NoError(t, err)

	student := createTestUser(t, db, models.RoleStudent, "budi@kampus.ac.id", "2110512345")
	admin := createTestUser(t, db, models.RoleAdmin, "admin@kampus.ac.id", "0000000001")
	category := createTestCategory(t, db, "Aksesoris")
	item := createTestItem(t, db, student, category, models.ItemStatusInClaim)

	_, err = service.Record(context.Background(), actorFor(student), item.ID, uploadedFile(t, "a.jpg", "x"), "")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = service.Record(context.Background(), actorFor(admin), item.ID, nil, "")
	require.Error(t, err)

	_, err = service.Record(context.Background(), actorFor(admin), "b6f9a3e2-0000-0000-0000-000000000000", uploadedFile(t, "a.jpg", "x"), "")
	require.ErrorIs(t, err, ErrItemNotFound)
}
