package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/qs3c/water_go_server/config"
	"github.com/qs3c/water_go_server/internal/api/handler"
	"github.com/qs3c/water_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	areaHandler      *handler.AreaHandler
	userHandler      *handler.UserHandler
	slotHandler      *handler.SlotHandler
	subHandler       *handler.SubscriptionHandler
	websocketHandler *handler.WebSocketHandler
	rdb              *redis.Client
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	areaHandler *handler.AreaHandler,
	userHandler *handler.UserHandler,
	slotHandler *handler.SlotHandler,
	subHandler *handler.SubscriptionHandler,
	websocketHandler *handler.WebSocketHandler,
	rdb *redis.Client,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		areaHandler:      areaHandler,
		userHandler:      userHandler,
		slotHandler:      slotHandler,
		subHandler:       subHandler,
		websocketHandler: websocketHandler,
		rdb:              rdb,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/request-otp",
				middleware.RateLimit(r.rdb, "otp", r.cfg.OTP.MaxPerHour, time.Hour),
				r.authHandler.RequestOTP)
			auth.POST("/verify-otp", r.authHandler.VerifyOTP)
			auth.POST("/admin/login", r.authHandler.AdminLogin)
		}

		// 居民接口
		resident := api.Group("")
		resident.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireResident())
		{
			resident.GET("/profile", r.userHandler.GetProfile)
			resident.PUT("/profile", r.userHandler.UpdateProfile)

			resident.GET("/slots/current", r.slotHandler.Current)

			subs := resident.Group("/subscriptions")
			{
				subs.GET("", r.subHandler.ListMine)
				subs.POST("/:id/cancel", r.subHandler.Cancel)
				subs.POST("/:id/extra", r.subHandler.RequestExtra)
			}
		}

		// 管理接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireAdmin())
		{
			areas := admin.Group("/areas")
			{
				areas.POST("", r.areaHandler.Create)
				areas.GET("", r.areaHandler.List)
				areas.GET("/:id", r.areaHandler.Get)
				areas.PUT("/:id", r.areaHandler.Update)
				areas.DELETE("/:id", r.areaHandler.Delete)
				areas.GET("/:id/users", r.userHandler.ListByArea)
			}

			users := admin.Group("/users")
			{
				users.POST("", r.userHandler.Create)
				users.GET("/:id", r.userHandler.Get)
				users.PUT("/:id", r.userHandler.Update)
				users.DELETE("/:id", r.userHandler.Delete)
			}

			slots := admin.Group("/slots")
			{
				slots.POST("", r.slotHandler.Create)
				slots.GET("", r.slotHandler.List)
				slots.GET("/today", r.slotHandler.Today)
				slots.GET("/:id", r.slotHandler.Get)
				slots.PUT("/:id", r.slotHandler.Update)
				slots.DELETE("/:id", r.slotHandler.Delete)
				slots.GET("/:id/subscriptions", r.subHandler.ListBySlot)
			}

			adminSubs := admin.Group("/subscriptions")
			{
				adminSubs.GET("/:id", r.subHandler.GetDetail)
				adminSubs.POST("/:id/extra-decision", r.subHandler.DecideExtra)
				adminSubs.POST("/:id/delivery", r.subHandler.MarkDelivery)
			}
		}
	}

	return engine
}
