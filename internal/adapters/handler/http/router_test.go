package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := setupRouter(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := env.do("GET", path, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"store":"connected"`)
		assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupRouter(t)

	w := env.do("OPTIONS", "/api/v1/plans", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
