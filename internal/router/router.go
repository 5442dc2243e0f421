package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sscprep/mocktest-backend/internal/config"
	"github.com/sscprep/mocktest-backend/internal/handler"
	"github.com/sscprep/mocktest-backend/internal/middleware"
	"github.com/sscprep/mocktest-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Bank    *handler.BankHandler
	Test    *handler.TestHandler
	Session *handler.SessionHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve bank data files statically with aggressive caching (1 day).
	dataGroup := router.Group("/data")
	dataGroup.Use(middleware.CacheControl(86400))
	{
		dataGroup.Static("/", cfg.DataDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Bank & Catalog ─────────────────────────────────────────────
	api := router.Group("/api/v1")
	{
		api.GET("/bank/subjects", handlers.Bank.GetSubjects)
		api.GET("/tests/mocks", handlers.Bank.GetMockSets)

		// ─── 2. Session start ──────────────────────────────────────────
		api.POST("/tests/random", handlers.Test.StartRandom)
		api.POST("/tests/subject", handlers.Test.StartSubject)
		api.POST("/tests/mocks/:id/start", handlers.Test.StartMock)
		api.POST("/tests/quick-practice/start", handlers.Test.StartQuickPractice)

		// ─── 3. Active session ─────────────────────────────────────────
		api.GET("/session", handlers.Session.GetState)
		api.POST("/session/resume", handlers.Session.Resume)
		api.POST("/session/answer", handlers.Session.Answer)
		api.POST("/session/mark", handlers.Session.Mark)
		api.POST("/session/navigate", handlers.Session.Navigate)
		api.POST("/session/submit", handlers.Session.Submit)

		// ─── 4. Results & review ───────────────────────────────────────
		api.GET("/results/latest", handlers.Session.LatestResult)
		api.GET("/review/latest", handlers.Session.LatestReview)
	}

	// ─── 5. WebSocket countdown stream ─────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/session/stream", handlers.WS.SessionStream)
	}

	return router
}
