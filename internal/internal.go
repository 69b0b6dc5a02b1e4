package internal

import (
	"fmt"
	"net/http"

	"github.com/lahirunirmalx/cOrange/internal/config"
	"github.com/lahirunirmalx/cOrange/internal/middlewares"
)

//StatusRoute health check route
func StatusRoute() (route config.Route) {
	route = config.Route{
		Path:    "/health",
		Method:  http.MethodGet,
		Handler: middlewares.RuntimeHealthCheck(),
	}
	return route
}

type ServerConfig interface {
	Version() string
	UploadDir() string
	MetricsHandler() http.Handler
}

func SetupServer(cfg ServerConfig, punchHandler PunchAPIHandler) *config.Server {
	basePath := fmt.Sprintf("/%v", cfg.Version())
	server := config.NewServer().
		WithRoutes(
			"", StatusRoute(),
		).
		WithHandler("/metrics", cfg.MetricsHandler()).
		WithRoutes(
			basePath,
			Routes(punchHandler, cfg.UploadDir())...,
		)
	return server
}
