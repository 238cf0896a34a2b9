// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"mapchat/internal/http/handlers"
	"mapchat/internal/http/middleware"
)

const serviceName = "mapchat-api"

// Limiter admits API requests and reports a client's window.
type Limiter interface {
	middleware.Limiter
	handlers.RateLimitStatus
}

// RouterDeps are the collaborators the routes delegate to. Limiter may be nil
// to disable rate limiting.
//
// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For header is
// believed when identifying the client. Empty means the socket peer address is
// the client.
type RouterDeps struct {
	Assistant      handlers.PromptProcessor
	Maps           handlers.MapsService
	Limiter        Limiter
	TrustedProxies []string
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, using peer address only",
			zap.Strings("trusted_proxies", deps.TrustedProxies),
			zap.Error(err),
		)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		otelgin.Middleware(serviceName),
		middleware.CORS(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter, logger))
		r.GET("/ratelimit", handlers.NewRateLimitHandler(deps.Limiter).Status)
	}

	llmHandler := handlers.NewLLMHandler(deps.Assistant)
	api.POST("/llm", llmHandler.Process)

	mapsHandler := handlers.NewMapsHandler(deps.Maps)
	api.POST("/search", mapsHandler.Search)
	api.GET("/directions", mapsHandler.Directions)

	return r
}
