package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

type RouterDependencies struct {
	PlanHandler    *PlanHandler
	StatsHandler   *StatsHandler
	BibleHandler   *BibleHandler
	ContentHandler *ContentHandler
	StateHandler   *StateHandler
	Store          domain.KeyValueStore
	StoreBackend   string
	Redis          *redis.Client
	RateLimit      int
	StartTime      time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiter(deps.Redis, deps.RateLimit, 1*time.Minute))
	}

	health := func(c *gin.Context) {
		storeStatus := "connected"
		if deps.Store == nil || deps.Store.Ping(c.Request.Context()) != nil {
			storeStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := 200
		if storeStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"store":   storeStatus,
			"backend": deps.StoreBackend,
			"redis":   redisStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	}

	router.GET("/health", health)

	apiV1 := router.Group("/api/v1")
	apiV1.GET("/health", health)

	deps.PlanHandler.RegisterRoutes(apiV1)
	deps.StatsHandler.RegisterRoutes(apiV1)
	deps.BibleHandler.RegisterRoutes(apiV1)
	deps.ContentHandler.RegisterRoutes(apiV1)
	deps.StateHandler.RegisterRoutes(apiV1)

	return router
}
