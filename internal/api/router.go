package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sarcoord/rescue-backend-go/internal/analysis/trajectory"
	"github.com/sarcoord/rescue-backend-go/internal/analysis/zones"
	"github.com/sarcoord/rescue-backend-go/internal/auth"
	"github.com/sarcoord/rescue-backend-go/internal/cache"
	"github.com/sarcoord/rescue-backend-go/internal/config"
	"github.com/sarcoord/rescue-backend-go/internal/handler"
	"github.com/sarcoord/rescue-backend-go/internal/metrics"
	"github.com/sarcoord/rescue-backend-go/internal/middleware"
	"github.com/sarcoord/rescue-backend-go/internal/notify"
	"github.com/sarcoord/rescue-backend-go/internal/repository"
	"github.com/sarcoord/rescue-backend-go/internal/service"
)

// Dependencies are the long lived objects the router wires together
type Dependencies struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Broker  *notify.Broker

	// Optional; built from the config when nil
	Verifier   middleware.Verifier
	Authorizer auth.Authorizer
	Limiter    *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Broker == nil {
		deps.Broker = notify.NewBroker(logger)
	}
	if deps.Authorizer == nil {
		deps.Authorizer = auth.DefaultPolicy()
	}
	if deps.Limiter == nil {
		deps.Limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	}

	// repositories
	eventRepo := repository.NewEventRepository(deps.DB)
	personRepo := repository.NewMissingPersonRepository(deps.DB)
	participantRepo := repository.NewParticipantRepository(deps.DB)
	markerRepo := repository.NewMarkerRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	helpRepo := repository.NewHelpRepository(deps.DB)

	if deps.Verifier == nil {
		deps.Verifier = auth.NewTokenVerifier(cfg.JWTSecret, userRepo)
	}

	// services
	shared := service.Shared{
		Cache:     cache.New[any](cfg.CacheTTL, deps.Metrics),
		Publisher: deps.Broker,
		Logger:    logger,
	}
	validator := zones.New(cfg.Zones())
	segmenter := trajectory.New(cfg.Segmenter())

	eventService := service.NewEventService(deps.DB, eventRepo, shared)
	personService := service.NewMissingPersonService(personRepo, eventRepo, validator, deps.Metrics, shared)
	participantService := service.NewParticipantService(participantRepo, eventRepo, shared)
	trackService := service.NewTrackService(markerRepo, personRepo, eventRepo, segmenter, deps.Metrics, shared)
	zoneService := service.NewZoneService(validator, deps.Metrics)
	userService := service.NewUserService(userRepo, shared)
	helpService := service.NewHelpService(helpRepo, shared)
	dashboardService := service.NewDashboardService(userService, eventService)

	// handlers
	events := handler.NewEventHandler(eventService)
	persons := handler.NewMissingPersonHandler(personService)
	participants := handler.NewParticipantHandler(participantService)
	tracks := handler.NewTrackHandler(trackService)
	zoneCheck := handler.NewZoneHandler(zoneService)
	stream := handler.NewStreamHandler(eventService, deps.Broker, deps.Metrics, logger)
	users := handler.NewUserHandler(userService)
	help := handler.NewHelpHandler(helpService)
	dashboard := handler.NewDashboardHandler(dashboardService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if err := deps.DB.PingContext(c.Request.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"message": "Rescue Backend API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	can := func(action auth.Action) gin.HandlerFunc {
		return middleware.RequireCapability(deps.Authorizer, action)
	}
	view := can(auth.ActionViewEvent)
	report := can(auth.ActionReportPosition)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(deps.Limiter), middleware.Authenticate(deps.Verifier))
	{
		// 搜救行动
		ev := api.Group("/events")
		{
			ev.GET("", view, events.List)
			ev.POST("", can(auth.ActionManageEvents), events.Create)
			ev.GET("/:id", view, events.Get)
			ev.PUT("/:id", can(auth.ActionManageEvents), events.Update)
			ev.DELETE("/:id", can(auth.ActionManageEvents), events.Delete)

			ev.GET("/:id/missing-persons", view, persons.List)
			ev.POST("/:id/missing-persons", can(auth.ActionManageMissingPersons), persons.Create)

			ev.GET("/:id/participants", view, participants.List)
			ev.POST("/:id/join", report, participants.Join)
			ev.POST("/:id/leave", report, participants.Leave)
			ev.PUT("/:id/participants/:userId/status", can(auth.ActionManageParticipants), participants.SetStatus)

			ev.POST("/:id/gps-tracks", report, tracks.RecordGPS)
			ev.POST("/:id/map-markers", report, tracks.AddMarker)
			ev.POST("/:id/polygons", report, tracks.AddPolygon)
			ev.GET("/:id/markers", view, tracks.Markers)
			ev.GET("/:id/tracks", view, tracks.Tracks)
			ev.GET("/:id/stream", view, stream.Stream)
		}

		// 失踪人员
		mp := api.Group("/missing-persons")
		{
			mp.GET("/:personId", view, persons.Get)
			mp.PUT("/:personId", can(auth.ActionManageMissingPersons), persons.Update)
			mp.DELETE("/:personId", can(auth.ActionManageMissingPersons), persons.Delete)
		}

		api.POST("/zones/validate", can(auth.ActionManageMissingPersons), zoneCheck.Validate)

		// 用户
		u := api.Group("/users", can(auth.ActionManageUsers))
		{
			u.GET("", users.List)
			u.PUT("/:userId", users.Update)
		}
		api.GET("/me", users.Me)
		api.PUT("/me/language", users.SetLanguage)

		// 帮助内容
		hp := api.Group("/help")
		{
			hp.GET("", view, help.List)
			hp.GET("/localized", view, help.Localized)
			hp.GET("/:helpId", view, help.Get)
			hp.POST("", can(auth.ActionManageHelp), help.Create)
			hp.PUT("/:helpId", can(auth.ActionManageHelp), help.Update)
			hp.DELETE("/:helpId", can(auth.ActionManageHelp), help.Delete)
		}

		api.GET("/dashboard", view, dashboard.Stats)
	}

	return r
}
