package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomgrid/internal/infra/config"
	"roomgrid/internal/infra/obs"
)

type ReservationHTTP interface {
	Create(c *gin.Context)
	Update(c *gin.Context)
	Cancel(c *gin.Context)
	Truncate(c *gin.Context)
	Evaluate(c *gin.Context)
}

type AvailabilityHTTP interface {
	RoomStatus(c *gin.Context)
	FreeRooms(c *gin.Context)
	DayOverview(c *gin.Context)
}

type Handlers struct {
	Reservation  ReservationHTTP
	Availability AvailabilityHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Create)
		api.PATCH("/reservations/:id", h.Reservation.Update)
		api.DELETE("/reservations/:id", h.Reservation.Cancel)
		api.POST("/reservations/:id/truncate", h.Reservation.Truncate)
		api.POST("/admission/evaluate", h.Reservation.Evaluate)
	}
	if h.Availability != nil {
		api.GET("/rooms/free", h.Availability.FreeRooms)
		api.GET("/rooms/:id/status", h.Availability.RoomStatus)
		api.GET("/rooms/:id/overview", h.Availability.DayOverview)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
