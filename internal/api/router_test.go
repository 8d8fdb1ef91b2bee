package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/campusfind/lostfound/internal/auth"
	"github.com/campusfind/lostfound/internal/database/testutil"
	"github.com/campusfind/lostfound/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedAdmin("admin@kampus.ac.id", "adminrahasia"))
	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "lostfound"})
	require.NoError(t, err)
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	router, err := NewRouter(Dependencies{
		DB:       db,
		JWT:      jwtService,
		Denylist: iauth.NewMemoryDenylist(),
		Files:    files,
	})
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, nim, email string) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/register", "", gin.H{
		"nama_lengkap": name,
		"nim":          nim,
		"email":        email,
		"password":     "rahasia123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func loginAdmin(t *testing.T, router *gin.Engine) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/login", "", gin.H{
		"identifier": "admin@kampus.ac.id",
		"password":   "adminrahasia",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func createCategory(t *testing.T, router *gin.Engine, adminToken, name string) string {
	t.Helper()

	rec, env := doJSON(t, router, http.MethodPost, "/api/kategori", adminToken, gin.H{"nama_kategori": name})
	require.Equal(t, http.StatusCreated, rec.Code)

	var category struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &category))
	return category.ID
}

func createItem(t *testing.T, router *gin.Engine, token, categoryID string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("nama_barang", "Dompet kulit"))
	require.NoError(t, writer.WriteField("deskripsi", "Dompet kulit coklat berisi KTM"))
	require.NoError(t, writer.WriteField("tipe_laporan", "ditemukan"))
	require.NoError(t, writer.WriteField("id_kategori", categoryID))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/barang", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var item struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &item))
	return item.ID
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthIsRequired(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/barang", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, env.Success)
	require.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	router := newTestRouter(t)
	studentToken := registerAndLogin(t, router, "Budi Santoso", "2110512345", "budi@kampus.ac.id")

	rec, env := doJSON(t, router, http.MethodPost, "/api/kategori", studentToken, gin.H{"nama_kategori": "Elektronik"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "Budi Santoso", "2110512345", "budi@kampus.ac.id")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/barang", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportClaimPickupFlow(t *testing.T) {
	router := newTestRouter(t)

	adminToken := loginAdmin(t, router)
	reporterToken := registerAndLogin(t, router, "Budi Santoso", "2110512345", "budi@kampus.ac.id")
	claimantToken := registerAndLogin(t, router, "Siti Rahma", "2110567890", "siti@kampus.ac.id")

	categoryID := createCategory(t, router, adminToken, "Aksesoris")
	itemID := createItem(t, router, reporterToken, categoryID)

	// The student report awaits verification; the admin publishes it.
	rec, env := doJSON(t, router, http.MethodPost, "/api/barang/"+itemID+"/verifikasi", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var verified struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	require.Equal(t, "open", verified.Status)

	// Another student claims it.
	rec, env = doJSON(t, router, http.MethodPost, "/api/klaim-penemuan", claimantToken, gin.H{
		"id_barang":        itemID,
		"lokasi_ditemukan": "Perpustakaan lantai 2",
		"deskripsi_klaim":  "Tergeletak di meja baca",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var claim struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &claim))

	// The reporter cannot claim their own item.
	rec, env = doJSON(t, router, http.MethodPost, "/api/klaim-penemuan", reporterToken, gin.H{
		"id_barang":       itemID,
		"deskripsi_klaim": "Itu barang saya sendiri",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "SELF_CLAIM_NOT_ALLOWED", env.Error.Code)

	// The reporter accepts the claim.
	rec, _ = doJSON(t, router, http.MethodPatch, "/api/klaim-penemuan/"+claim.ID+"/status", reporterToken, gin.H{
		"status_klaim": "diterima_pemilik",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The claimant requests pickup and the admin approves it.
	rec, env = doJSON(t, router, http.MethodPost, "/api/pengambilan", claimantToken, gin.H{
		"id_barang":         itemID,
		"pesan_pengambilan": "Saya ambil sore ini",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var pickup struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &pickup))

	rec, _ = doJSON(t, router, http.MethodPatch, "/api/pengambilan/"+pickup.ID+"/status", adminToken, gin.H{
		"status_pengambilan": "disetujui",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The reporter received notifications along the way.
	rec, env = doJSON(t, router, http.MethodGet, "/api/notifikasi", reporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	require.Greater(t, env.Meta.Total, 0)

	// The audit trail is admin-only and non-empty.
	rec, env = doJSON(t, router, http.MethodGet, "/api/activity-logs", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Greater(t, env.Meta.Total, 0)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/activity-logs", reporterToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestItemListPagination(t *testing.T) {
	router := newTestRouter(t)

	adminToken := loginAdmin(t, router)
	reporterToken := registerAndLogin(t, router, "Budi Santoso", "2110512345", "budi@kampus.ac.id")
	categoryID := createCategory(t, router, adminToken, "Elektronik")

	for i := 0; i < 3; i++ {
		createItem(t, router, reporterToken, categoryID)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/barang?page=1&per_page=2", reporterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, env.Meta.Total)
	require.Equal(t, 2, env.Meta.TotalPages)
}
