package app

import (
	"time"

	"Pulse/internal/auth"
	"Pulse/internal/cache"
	"Pulse/internal/config"
	"Pulse/internal/handlers"
	"Pulse/internal/notify"
	"Pulse/internal/repo"
	"Pulse/internal/service"
	"Pulse/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, 24*time.Hour)
	userRepo := repo.NewPGUserRepo(db)
	postRepo := repo.NewPGPostRepo(db)

	notifier := notify.NewWelcomeNotifier(cfg.Notify.Latency.Duration(), cfg.Notify.FailureRate)
	engine := workflow.NewEngine(workflow.NewBcryptHasher(), userRepo, postRepo, notifier)

	userSvc := service.NewUserService(userRepo, postRepo, engine)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	postCache := cache.NewPostCache(rdb, cfg.Redis.DefaultTTL.Duration())
	postSvc := service.NewPostService(postRepo, postCache)
	postHandler := handlers.NewPostHandler(postSvc)
	registerPostRoutes(protected, postHandler)

	dashSvc := service.NewDashboardService(userRepo, postRepo, postCache)
	dashHandler := handlers.NewDashboardHandler(dashSvc)
	protected.GET("/dashboard/stats", dashHandler.Stats)
	protected.GET("/users/me", authHandler.Me)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Pulse API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerPostRoutes(api *gin.RouterGroup, h *handlers.PostHandler) {
	api.POST("/posts", h.Create)
	api.GET("/posts", h.List)
	api.PATCH("/posts/:id", h.Update)
	api.DELETE("/posts/:id", h.Delete)
	api.POST("/posts/:id/like", h.Like)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
