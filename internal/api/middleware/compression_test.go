package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoraclinic/medora-site/backend/internal/api/middleware"
)

func TestCompression(t *testing.T) {
	body := `{"success":true,"data":[]}`
	h := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))

	t.Run("gzip client", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/surgeons", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate, br")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

		gz, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		plain, err := io.ReadAll(gz)
		require.NoError(t, err)
		assert.Equal(t, body, string(plain))
	})

	t.Run("identity client", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/surgeons", nil))

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, body, w.Body.String())
	})
}
