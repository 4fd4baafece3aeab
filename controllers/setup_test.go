package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dimas0315/AI-Social-Platform/models"
	"github.com/dimas0315/AI-Social-Platform/routes"
	"github.com/dimas0315/AI-Social-Platform/utils"
)

var (
	testRedis *miniredis.Miniredis
	dbSeq     int64
	ipSeq     int64
)

// TestMain wires the test environment before the lazy config load runs:
// a miniredis instance backs cache/blacklist/abuse counters, logs and
// uploads land in a scratch dir, and the rate limiter is opened wide so
// request-heavy tests never trip it.
func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniredis: %v\n", err)
		os.Exit(1)
	}
	testRedis = mr

	tmpDir, err := os.MkdirTemp("", "social-test-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "tempdir: %v\n", err)
		os.Exit(1)
	}

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Setenv("ADMIN_USERNAMES", "admin")
	os.Setenv("REDIS_HOST", mr.Host())
	os.Setenv("REDIS_PORT", mr.Port())
	os.Setenv("LOG_PATH", filepath.Join(tmpDir, "app.log"))
	os.Setenv("GIN_LOG_PATH", filepath.Join(tmpDir, "gin.log"))
	os.Setenv("UPLOAD_DIR", filepath.Join(tmpDir, "uploads"))
	os.Setenv("UPLOAD_MAX_SIZE_MB", "1")

	gin.SetMode(gin.TestMode)

	code := m.Run()

	mr.Close()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// newTestServer builds the real router on a fresh in-memory database and
// clears redis so cached payloads never leak between tests.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	testRedis.FlushAll()

	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Publication{},
		&models.Comment{},
		&models.Like{},
		&models.Share{},
		&models.Topic{},
		&models.Friendship{},
		&models.Notification{},
		&models.MediaFile{},
		&models.UserActivity{},
	))

	return routes.SetupRouter(db), db
}

// seedUser creates a user directly in the database and returns it with a
// valid bearer token, bypassing the registration endpoint.
func seedUser(t *testing.T, db *gorm.DB, username string) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("secret-123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		RegisterIP:   "127.0.0.1",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return user, token
}

func doRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doRequestFrom is doRequest with a spoofed client IP, used by the
// registration tests so per-IP abuse counters do not couple test cases.
func doRequestFrom(r http.Handler, method, path string, body interface{}, ip string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func nextTestIP() string {
	n := atomic.AddInt64(&ipSeq, 1)
	return fmt.Sprintf("10.9.%d.%d", (n/250)%250, n%250+1)
}

func doUpload(t *testing.T, r http.Handler, token, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// dataMap decodes the data envelope field into a generic map.
func dataMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	resp := parseResponse(t, w)
	m := map[string]interface{}{}
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &m))
	}
	return m
}

func objField(t *testing.T, m map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	v, ok := m[key].(map[string]interface{})
	require.True(t, ok, "expected object under %q, got %T", key, m[key])
	return v
}

func listField(t *testing.T, m map[string]interface{}, key string) []interface{} {
	t.Helper()
	v, ok := m[key].([]interface{})
	require.True(t, ok, "expected array under %q, got %T", key, m[key])
	return v
}

// createPublication posts a publication through the API and returns its id.
func createPublication(t *testing.T, r http.Handler, token, content string) uint {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/v1/publications", gin.H{"content": content}, token)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	pub := objField(t, dataMap(t, w), "publication")
	id, ok := pub["id"].(float64)
	require.True(t, ok)
	return uint(id)
}
