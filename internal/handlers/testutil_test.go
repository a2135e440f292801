package handlers

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/studenthub/backend/internal/config"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/services"
	"github.com/studenthub/backend/internal/storage"
	"github.com/studenthub/backend/pkg/logger"
	"github.com/studenthub/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *fakeAvatarStore
}

// fakeAvatarStore stands in for MinIO: it records uploads in memory and can
// be told to fail to exercise the upload error path.
type fakeAvatarStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
	counter int
}

func newFakeAvatarStore() *fakeAvatarStore {
	return &fakeAvatarStore{objects: map[string][]byte{}}
}

func (f *fakeAvatarStore) Upload(_ context.Context, reader io.Reader, _ int64, contentType string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return storage.Object{}, fmt.Errorf("simulated upload failure")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return storage.Object{}, err
	}

	f.counter++
	name := fmt.Sprintf("avatar-%d", f.counter)
	f.objects[name] = data
	return storage.Object{
		StorageID: name,
		URL:       "http://storage.test/avatars/" + name,
	}, nil
}

func (f *fakeAvatarStore) Delete(_ context.Context, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, storageID)
	return nil
}

func (f *fakeAvatarStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 15*time.Minute, 24*time.Hour)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	store := newFakeAvatarStore()
	accountService := services.NewAccountService(db, store)

	jwtCfg := config.JWTConfig{
		Secret:           "test-secret",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       24 * time.Hour,
		CookieExpireDays: 7,
	}

	authHandler := NewAuthHandler(accountService, jwtCfg)
	usersHandler := NewUsersHandler(accountService)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())

	api := app.Group("/api/v1")

	userRoutes := api.Group("/user")
	userRoutes.Post("/register", authHandler.Register)
	userRoutes.Post("/login", authHandler.Login)
	userRoutes.Get("/logout", authMiddleware.RequireAuth, authHandler.Logout)
	userRoutes.Get("/getuser", authMiddleware.RequireAuth, authHandler.Me)
	userRoutes.Delete("/delete/:id", authMiddleware.RequireAuth, usersHandler.Delete)

	return &testEnv{app: app, db: db, store: store}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		Phone:        123456789,
		PasswordHash: hash,
		Role:         role,
		Avatar: models.Avatar{
			StorageID: "seed-avatar",
			URL:       "http://storage.test/avatars/seed-avatar",
		},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	pair, err := utils.GenerateTokenPair(user)
	if err != nil {
		t.Fatalf("failed generating auth tokens: %v", err)
	}

	return user, pair.AccessToken
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func sessionCookie(token string) map[string]string {
	return map[string]string{"Cookie": "accessToken=" + token}
}

type registerForm struct {
	name     string
	email    string
	phone    string
	role     string
	password string
	mimeType string
}

func validRegisterForm(email string) registerForm {
	return registerForm{
		name:     "Ann",
		email:    email,
		phone:    "123456789",
		role:     "Student",
		password: "password1",
		mimeType: "image/png",
	}
}

func performRegister(t *testing.T, app *fiber.App, form registerForm) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":     form.name,
		"email":    form.email,
		"phone":    form.phone,
		"role":     form.role,
		"password": form.password,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing form field %s: %v", key, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="avatar.png"`)
	header.Set("Content-Type", form.mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed creating avatar part: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("failed writing avatar bytes: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	return performRequest(t, app, http.MethodPost, "/api/v1/user/register", &body, map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func responseCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
