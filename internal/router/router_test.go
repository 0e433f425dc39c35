package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clients_backend/internal/config"
	"clients_backend/internal/database"
	"clients_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(config.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.ApplySchema(db, ""); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	photos, err := storage.NewPhotoStoreFs(afero.NewMemMapFs(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(&config.Config{CORSAllowedOrigin: "http://localhost:4200"})
	Setup(engine, db, photos, 1<<20)
	return engine
}

func TestRoutes(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/ping", http.StatusOK},
		{http.MethodGet, "/api/clients", http.StatusOK},
		{http.MethodGet, "/api/clients/page/0", http.StatusOK},
		{http.MethodGet, "/api/clients/1", http.StatusNotFound},
		{http.MethodDelete, "/api/clients/1", http.StatusNotFound},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:4200" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("Access-Control-Expose-Headers = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin status = %d, want 403", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	req := httptest.NewRequest(http.MethodGet, "/api/clients/page/0", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin status = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `clients_api_http_requests_total{method="GET",route="/api/clients",status="200"}`) {
		t.Error("request counter for /api/clients not exported")
	}
	if !strings.Contains(w.Body.String(), `clients_api_http_requests_total{method="GET",route="/api/clients/page/:page",status="403"}`) {
		t.Error("request rejected by CORS was not counted")
	}
}
