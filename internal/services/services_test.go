package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusfind/lostfound/internal/models"
	"github.com/campusfind/lostfound/internal/storage"
	"github.com/campusfind/lostfound/pkg/crypto"
)

func newTestFileStore(t *testing.T) *storage.FileStore {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func createTestUser(t *testing.T, db *gorm.DB, role, email, nim string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword("rahasia123")
	require.NoError(t, err)

	user := models.User{
		FullName:  "Test " + nim,
		StudentID: nim,
		Email:     email,
		Password:  hashed,
		Role:      role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := models.Category{Name: name}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func createTestLocation(t *testing.T, db *gorm.DB, name string) *models.Location {
	t.Helper()

	location := models.Location{Name: name}
	require.NoError(t, db.Create(&location).Error)
	return &location
}

func createTestItem(t *testing.T, db *gorm.DB, reporter *models.User, category *models.Category, status string) *models.Item {
	t.Helper()

	item := models.Item{
		Name:               "Dompet kulit",
		Description:        "Dompet kulit coklat berisi KTM",
		ReportType:         models.ReportTypeFound,
		Status:             status,
		VerificationStatus: models.VerificationNone,
		ReporterID:         reporter.ID,
		CategoryID:         category.ID,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func actorFor(user *models.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

func uploadedFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}
