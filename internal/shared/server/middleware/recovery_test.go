package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/metrics"
)

func TestRecoveryWritesEnvelopeAndCountsExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/api/v1/exports/:kind", func(c *gin.Context) {
		c.Set("exportKind", c.Param("kind"))
		panic("renderer exploded")
	})

	before := metrics.Render()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exports/CV", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"internal"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if metrics.Render() == before {
		t.Fatalf("expected the failed export to be counted")
	}
}

func TestRecoveryLeavesStartedDownloadAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/download", func(c *gin.Context) {
		c.Header("Content-Type", "application/pdf")
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write([]byte("%PDF-1.3"))
		panic("stream broke")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/download", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("status should stay as written, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "Unexpected server error") {
		t.Fatalf("error envelope must not be appended to a started download: %q", resp.Body.String())
	}
}

func TestRequestIDKeepsOnlyPlainTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	cases := map[string]bool{
		"Root=1-65f2a1b3-abc123def456": false,
		"abc12345-edge:7":              true,
		"short":                        false,
		"bad id\r\nX-Evil: 1":          false,
	}
	for incoming, kept := range cases {
		req := httptest.NewRequest(http.MethodGet, "/id", nil)
		req.Header.Set("X-Request-Id", incoming)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		got := resp.Header().Get("X-Request-Id")
		if got != resp.Body.String() {
			t.Fatalf("header %q and context %q disagree", got, resp.Body.String())
		}
		if (got == incoming) != kept {
			t.Fatalf("incoming %q: got %q, kept=%v", incoming, got, kept)
		}
	}
}
