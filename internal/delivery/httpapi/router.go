package httpapi

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterOptions struct {
	Config  Config
	APIKey  string
	Logger  *zerolog.Logger
	Tracing string // otel service name; empty disables request spans
}

// NewRouter builds the game server API.
//
// Middleware order: tracing, request id, access log, recovery, body limit,
// metrics, compression. The game routes additionally pass the API key check
// and then the rate limiter before any body is read, so rejected callers
// never spend the game server's budget.
func NewRouter(h *Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	if opts.Tracing != "" {
		r.Use(otelgin.Middleware(opts.Tracing))
	}
	r.Use(RequestID())
	r.Use(AccessLog(opts.Logger))
	r.Use(Recovery(opts.Logger))
	r.Use(limitBody(opts.Config.MaxBodyBytes))
	r.Use(Metrics())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("")
	api.Use(APIKey(opts.APIKey))
	if opts.Config.RateRPS > 0 {
		api.Use(NewRateLimiter(opts.Config.RateRPS, opts.Config.RateBurst).Handler())
	}
	{
		api.POST("/link/confirm", h.LinkConfirm)
		api.POST("/profile/update", h.ProfileUpdate)

		admin := api.Group("/admin/actions")
		admin.GET("/pull", h.PullActions)
		admin.POST("/ack", h.AckActions)
		admin.POST("/report", h.ReportAction)
	}
	return r
}
