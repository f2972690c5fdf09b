package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"event-inventory/internal/config"
	"event-inventory/internal/database"
	"event-inventory/internal/inventory"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Available int64           `json:"available"`
	Requested int64           `json:"requested"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "handler.db"),
	})
	if err != nil {
		t.Fatalf("database.Init() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// newTestEngine wires the inventory routes without auth.
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	db := setupTestDB(t)
	svc := inventory.NewService(db, nil, nil, zerolog.Nop())
	h := NewInventoryHandler(svc, zerolog.Nop())
	ex := NewExportHandler(svc, zerolog.Nop())

	r := gin.New()
	r.GET("/health", Health(db))
	api := r.Group("/api")
	api.GET("/articles", h.ListArticles)
	api.POST("/articles", h.CreateArticle)
	api.PUT("/articles/:id", h.UpdateArticle)
	api.DELETE("/articles/:id", h.DeleteArticle)
	api.GET("/articles/:id/stock", h.GetStock)
	api.GET("/events", h.ListEvents)
	api.POST("/events", h.CreateEvent)
	api.DELETE("/events/:id", h.DeleteEvent)
	api.GET("/events/:id/stats", h.GetEventStats)
	api.GET("/events/:id/transactions", h.ListEventTransactions)
	api.POST("/transactions", h.RecordTransaction)
	api.GET("/todos", h.ListTodos)
	api.POST("/todos", h.CreateTodo)
	api.DELETE("/todos/:id", h.CompleteTodo)
	api.GET("/export/articles.csv", ex.ArticlesCSV)
	api.GET("/export/articles.xlsx", ex.ArticlesXLSX)
	api.GET("/export/events/:id/stats.xlsx", ex.EventStatsXLSX)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if ct := w.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func authedDo(t *testing.T, r http.Handler, token, method, path, body string) *envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
	}
	return &env
}

// mustDo is do with a status check.
func mustDo(t *testing.T, r http.Handler, method, path, body string, want int) envelope {
	t.Helper()
	w, env := do(t, r, method, path, body)
	if w.Code != want {
		t.Fatalf("%s %s = %d (%s), want %d", method, path, w.Code, w.Body.String(), want)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}
