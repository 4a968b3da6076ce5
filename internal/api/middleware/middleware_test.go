package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Logger(), ErrorHandler())
	r.GET("/string", func(c *gin.Context) { panic("boom") })
	r.GET("/error", func(c *gin.Context) { panic(errors.New("bad state")) })
	r.GET("/other", func(c *gin.Context) { panic(42) })

	tests := []struct {
		path    string
		message string
	}{
		{"/string", "boom"},
		{"/error", "bad state"},
		{"/other", "An unexpected error occurred"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code, tt.path)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR", tt.path)
		assert.Contains(t, w.Body.String(), tt.message, tt.path)
	}
}

func TestCORS_AllowAllByDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
