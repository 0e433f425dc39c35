package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"clients_backend/internal/config"
	"clients_backend/internal/database"
	"clients_backend/internal/metrics"
	"clients_backend/internal/middleware"
	"clients_backend/internal/models"
	"clients_backend/internal/repositories"
	"clients_backend/internal/services"
	"clients_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/afero"
)

const (
	testUploadsDir     = "/uploads"
	testMaxUploadBytes = 1 << 20
)

// testEnv holds all test dependencies
type testEnv struct {
	db     *sqlx.DB
	fs     afero.Fs
	repo   repositories.ClientRepository
	router *gin.Engine
}

// setupTestEnv creates a router backed by in-memory SQLite and an in-memory uploads directory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.ApplySchema(db, ""); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	fs := afero.NewMemMapFs()
	photos, err := storage.NewPhotoStoreFs(fs, testUploadsDir)
	if err != nil {
		t.Fatalf("failed to create photo store: %v", err)
	}

	repo := repositories.NewClientRepository(db)
	return newTestEnv(db, fs, repo, photos)
}

func newTestEnv(db *sqlx.DB, fs afero.Fs, repo repositories.ClientRepository, photos storage.PhotoStore) *testEnv {
	handler := NewClientHandler(services.NewClientService(repo, photos), testMaxUploadBytes)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware())

	api := router.Group("/api")
	api.GET("/clients", handler.GetClients)
	api.GET("/clients/page/:page", handler.GetClientsPage)
	api.GET("/clients/:id", handler.GetClientByID)
	api.POST("/clients", handler.CreateClient)
	api.PUT("/clients/:id", handler.UpdateClient)
	api.DELETE("/clients/:id", handler.DeleteClient)
	api.POST("/clients/upload", handler.UploadPhoto)
	api.GET("/uploads/img/:filename", handler.ViewPhoto)

	return &testEnv{db: db, fs: fs, repo: repo, router: router}
}

// seedClient stores a client directly through the repository.
func (env *testEnv) seedClient(t *testing.T, name, email string) models.Client {
	t.Helper()
	c := models.Client{Name: name, LastName: "Tester", Email: email, CreateAt: models.NewDate(2024, 6, 1)}
	if err := env.repo.Save(context.Background(), &c); err != nil {
		t.Fatalf("failed to seed client %s: %v", email, err)
	}
	return c
}

func (env *testEnv) uploadedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := afero.ReadDir(env.fs, testUploadsDir)
	if err != nil {
		t.Fatalf("reading uploads dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// makeRequest performs a request with an optional JSON body.
func (env *testEnv) makeRequest(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("failed to marshal body: %v", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// uploadRequest posts a multipart form with the given fields. A nil content
// omits the "file" part entirely.
func (env *testEnv) uploadRequest(t *testing.T, id, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if id != "" {
		if err := mw.WriteField("id", id); err != nil {
			t.Fatal(err)
		}
	}
	if content != nil {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPost, "/api/clients/upload", &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// envelope mirrors the JSON message envelope.
type envelope struct {
	Mensaje string         `json:"mensaje"`
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Errors  []string       `json:"errors"`
	Client  *models.Client `json:"client"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

func parseJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return v
}

// failedUploads reads the "failed" photo upload counter.
func failedUploads(t *testing.T) float64 {
	t.Helper()

	var m dto.Metric
	if err := metrics.PhotoUploadsTotal.WithLabelValues("failed").Write(&m); err != nil {
		t.Fatalf("failed to read upload metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
