package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yeisme/regvault/pkg/internal/router"
)

// TestFallbackRoute 未匹配的路径由兜底处理器回 404.
func TestFallbackRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	router.RegisterFallbackRoute(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/no/such/path", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}
