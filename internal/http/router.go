// README: HTTP route registration; delegates to the session engine and fleet directory.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guincho/internal/http/handlers"
	"guincho/internal/http/middleware"
	"guincho/internal/modules/fleet"
	"guincho/internal/modules/ride"
)

type ServerDeps struct {
	Session   *ride.Session
	Directory fleet.Directory
	Logger    *zap.Logger
}

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.Logging(deps.Logger))

	session := handlers.NewSessionHandler(deps.Session)
	r.GET("/api/session", session.Get)
	r.POST("/api/session/origin", session.EditOrigin)
	r.POST("/api/session/destination", session.EditDestination)
	r.POST("/api/session/quote", session.RequestQuote)
	r.POST("/api/session/confirm", session.Confirm)
	r.POST("/api/session/finalize", session.Finalize)
	r.POST("/api/session/pay", session.Pay)
	r.POST("/api/session/reset", session.Reset)

	providers := handlers.NewFleetHandler(deps.Directory)
	r.GET("/api/providers", providers.ListAvailable)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
