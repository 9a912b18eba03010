package sizecharthttp

import (
	"errors"
	"net/http"

	httpserver "presizely/internal/transport/http/server"

	"github.com/gin-gonic/gin"
)

type ServerConfig struct {
	Addr               string
	Service            Service
	LegacyDoubleEncode bool
}

// NewServer builds the size-chart HTTP server with routes under /size-chart.
func NewServer(cfg ServerConfig) (*httpserver.Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("size chart server requires a service")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	router := httpserver.NewEngine(allowAnyOrigin())
	NewRouter(cfg.Service, cfg.LegacyDoubleEncode).Register(router.Group("/size-chart"))
	return httpserver.New("size chart", cfg.Addr, router), nil
}

// allowAnyOrigin lets browser dashboards on other origins call the API.
func allowAnyOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
