package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	_ = godotenv.Load("../../../../../.env")

	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test (Redis down): %v", err)
	}

	rdb.FlushDB(ctx)
	return rdb
}

func doGet(router *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := setupTestRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Allow requests under limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		limit := 5
		router := gin.New()
		router.Use(RateLimiter(rdb, limit, time.Minute))
		router.GET("/plans", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 1; i <= limit; i++ {
			w := doGet(router, "/plans", "192.168.1.100")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, fmt.Sprintf("%d", limit), w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, fmt.Sprintf("%d", limit-i), w.Header().Get("X-RateLimit-Remaining"))
		}

		ttl, err := rdb.TTL(ctx, KeyPrefix+"192.168.1.100").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0), "window must expire")
	})

	t.Run("Block requests over limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		router := gin.New()
		router.Use(RateLimiter(rdb, 2, time.Minute))
		router.GET("/stats", func(c *gin.Context) { c.Status(http.StatusOK) })

		ip := "192.168.1.101"
		assert.Equal(t, http.StatusOK, doGet(router, "/stats", ip).Code, "Request 1 should pass")
		assert.Equal(t, http.StatusOK, doGet(router, "/stats", ip).Code, "Request 2 should pass")

		w := doGet(router, "/stats", ip)
		assert.Equal(t, http.StatusTooManyRequests, w.Code, "Request 3 should be blocked")
		assert.Contains(t, w.Body.String(), "Too many requests")

		assert.Equal(t, http.StatusOK, doGet(router, "/stats", "192.168.1.102").Code, "other clients are unaffected")
	})
}

func TestRateLimiter_FailOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	badRdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:9999",
		DialTimeout: 200 * time.Millisecond,
	})
	defer badRdb.Close()

	router := gin.New()
	router.Use(RateLimiter(badRdb, 5, time.Minute))
	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "passed") })

	w := doGet(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "passed", w.Body.String())
}
