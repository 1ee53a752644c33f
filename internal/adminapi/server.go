package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/oltwatch/oltwatch/internal/app"
)

// Server exposes the admin API: node inventory, last telemetry and manual
// poll/discovery triggers.
type Server struct {
	app  app.AppContext
	echo *echo.Echo
}

func NewServer(appCtx app.AppContext) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{app: appCtx, echo: e}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	g := s.echo.Group("/api")
	g.GET("/nodes", s.listNodes)
	g.GET("/nodes/:id", s.getNode)
	g.GET("/nodes/:id/telemetry", s.getNodeTelemetry)
	g.POST("/nodes/:id/poll", s.triggerPoll)
	g.POST("/nodes/:id/discover", s.triggerDiscovery)
}

// Start blocks serving the admin API.
func (s *Server) Start() error {
	cfg := s.app.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("admin api listening", zap.String("addr", addr))
	return s.echo.Start(addr)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "data": data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]interface{}{"ok": false, "error": msg})
}
