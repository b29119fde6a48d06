// Package httpapi exposes the lookup and suggestion pipelines over HTTP with gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options configures the router. An empty AllowedOrigins disables CORS and a non-positive Timeout disables the per-request deadline.
type Options struct {
	AllowedOrigins []string
	// Timeout bounds each request, including the generator call.
	Timeout time.Duration
}

// NewRouter builds the gin engine with recovery, request id, tracing and logging middleware,
// the health check and the /api routes.
func NewRouter(svc nutritionService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Trace(), Logger())

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", HeaderRequestID},
			ExposeHeaders: []string{HeaderRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	h := NewHandler(svc)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Use(Timeout(opts.Timeout))
	{
		api.POST("/foods/lookup", h.Lookup)
		api.POST("/suggestions", h.Suggest)
	}

	return r
}
