package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/pkg/logger"
)

// Handler is anything that mounts routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicHandler additionally mounts routes that skip authentication.
type PublicHandler interface {
	Handler
	RegisterPublicRoutes(*gin.RouterGroup)
}

type Config struct {
	RequestTimeout  time.Duration
	RateLimitPerSec float64
	RateLimitBurst  int
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware
	cfg    Config
	log    *logger.Logger

	authH      PublicHandler
	healthH    Handler
	protectedH []Handler

	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	log *logger.Logger,
	cfg Config,
	authH PublicHandler,
	healthH Handler,
	protected ...Handler,
) *Router {
	return &Router{
		engine:     gin.New(),
		auth:       auth,
		cfg:        cfg,
		log:        log,
		authH:      authH,
		healthH:    healthH,
		protectedH: protected,
		metrics:    newRouterMetrics(),
	}
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

// Setup wires middleware and mounts every handler. Register/login and the
// health probes stay public; everything else sits behind bearer auth.
func (r *Router) Setup() *gin.Engine {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.RequestLogger(r.log))
	r.engine.Use(middleware.CORS())
	r.engine.Use(r.instrument())
	if r.cfg.RequestTimeout > 0 {
		r.engine.Use(middleware.Timeout(r.cfg.RequestTimeout))
	}
	if r.cfg.RateLimitPerSec > 0 {
		limiter := middleware.NewRateLimiter(r.cfg.RateLimitPerSec, r.cfg.RateLimitBurst)
		r.engine.Use(limiter.RateLimit())
	}

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.engine.Group("/api/v1")
	r.authH.RegisterPublicRoutes(v1)
	r.healthH.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterRoutes(protected)
	for _, h := range r.protectedH {
		h.RegisterRoutes(protected)
	}

	return r.engine
}

func (r *Router) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := statusClass(c.Writer.Status())
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
