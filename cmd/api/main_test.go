package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productcatalog/internal/database"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := database.ConnectWithLogLevel(filepath.Join(t.TempDir(), "health.db"), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", healthHandler(db))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok","db":"ok"}}`, w.Body.String())

	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "DB_UNAVAILABLE")
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://***", redactDSN("postgres://user:secret@db/catalog"))
	assert.Equal(t, "catalog.db", redactDSN("catalog.db"))
}
