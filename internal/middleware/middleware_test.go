package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func setupRouter(log *zap.Logger, origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Metrics(), middleware.CORS(origins))

	r.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(middleware.RequestIDKey)})
	})
	r.GET("/broken", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	// Arrange
	router := setupRouter(zap.NewNop(), nil)
	req, _ := http.NewRequest("GET", "/resource", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	id := resp.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Contains(t, resp.Body.String(), id)
}

func TestRequestID_Propagated(t *testing.T) {
	// Arrange
	router := setupRouter(zap.NewNop(), nil)
	req, _ := http.NewRequest("GET", "/resource", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, "abc-123", resp.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_LevelByStatus(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.InfoLevel)
	router := setupRouter(zap.New(core), nil)

	// Act
	for _, path := range []string{"/resource", "/broken"} {
		req, _ := http.NewRequest("GET", path, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Assert
	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/broken", entries[1].ContextMap()["path"])
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])
}

func TestCORS_AllowAll(t *testing.T) {
	// Arrange
	router := setupRouter(zap.NewNop(), []string{"*"})
	req, _ := http.NewRequest("GET", "/resource", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	// Arrange
	router := setupRouter(zap.NewNop(), []string{"http://app.test"})
	req, _ := http.NewRequest("OPTIONS", "/resource", nil)
	req.Header.Set("Origin", "http://app.test")
	req.Header.Set("Access-Control-Request-Method", "PATCH")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, "http://app.test", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	// Arrange
	router := setupRouter(zap.NewNop(), []string{"http://app.test"})
	req, _ := http.NewRequest("GET", "/resource", nil)
	req.Header.Set("Origin", "http://evil.test")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
