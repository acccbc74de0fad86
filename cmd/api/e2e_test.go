package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/app"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/config"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

type planResponse struct {
	ID       string            `json:"id"`
	Progress int               `json:"progress"`
	Tasks    []domain.PlanTask `json:"tasks"`
}

func startServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	a, err := app.New(ctx, cfg)
	require.NoError(t, err)
	a.Start(ctx)

	srv := httptest.NewServer(newRouter(a, time.Now()))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		a.Close()
	})
	return srv
}

func TestEndToEnd_ReadingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StoreBackend:  config.BackendSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "lectio.db"),
		PrefetchDelay: time.Hour,
	}
	root := t
	srv := startServer(root, cfg)

	var plan planResponse

	t.Run("1. Create Plan", func(t *testing.T) {
		payload := `{"name":"Rute em 2 dias","start_book":"Rute","end_book":"Rute","duration_days":2}`
		resp, err := http.Post(srv.URL+"/api/v1/plans", "application/json", bytes.NewBufferString(payload))
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&plan))
		require.Len(t, plan.Tasks, 4)
	})

	t.Run("2. Complete Task", func(t *testing.T) {
		url := srv.URL + "/api/v1/plans/" + plan.ID + "/tasks/" + plan.Tasks[0].ID + "/toggle"
		resp, err := http.Post(url, "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Plan  planResponse     `json:"plan"`
			Stats domain.UserStats `json:"stats"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, 25, body.Plan.Progress)
		assert.Equal(t, 1, body.Stats.Streak)
	})

	t.Run("3. Export", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/export")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var doc domain.ExportDocument
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
		assert.Equal(t, 1, doc.Stats.ChaptersRead)
		assert.Len(t, doc.PlansProgress, 9)
	})

	t.Run("4. Restart keeps progress", func(t *testing.T) {
		srv.Close()
		srv = startServer(root, cfg)

		resp, err := http.Get(srv.URL + "/api/v1/plans/" + plan.ID)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reloaded planResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&reloaded))
		assert.Equal(t, 25, reloaded.Progress)
		assert.True(t, reloaded.Tasks[0].IsCompleted)
	})

	t.Run("5. Chapter without provider returns 502", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/bible/Rute/1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("6. Restarted server still serves state", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/stats")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats domain.UserStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 1, stats.ChaptersRead)
	})
}
