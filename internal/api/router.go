package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routes served by both transports.
const (
	PathHealth       = "/healthz"
	PathOptimizeDay  = "/v1/optimize/day"
	PathOptimizeWeek = "/v1/optimize/week"
	PathMetrics      = "/v1/metrics"
)

// NewRouter builds the gin engine serving svc. Request bodies above maxBody
// bytes are rejected with 413.
func NewRouter(svc *Service, log *zap.Logger, maxBody int64) *gin.Engine {
	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(log))

	r.GET(PathHealth, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	v1.Use(bodyLimit(maxBody))
	{
		v1.POST("/optimize/day", withBody(func(b []byte) (any, error) { return svc.OptimizeDay(b) }))
		v1.POST("/optimize/week", withBody(func(b []byte) (any, error) { return svc.OptimizeWeek(b) }))
		v1.POST("/metrics", withBody(func(b []byte) (any, error) { return svc.Metrics(b) }))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Envelope{Code: CodeNotFound, Message: "not found"})
	})
	return r
}

// withBody adapts a service call to a gin handler.
func withBody(call func([]byte) (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, Envelope{Code: CodeTooLarge, Message: "request body too large"})
				return
			}
			respond(c, nil, badRequest("read body: %v", err))
			return
		}
		data, err := call(body)
		respond(c, data, err)
	}
}

// ── middleware ──────────────────────────────────────────────────────

const requestIDKey = "request_id"

// requestIDMaxLen bounds client-supplied ids before they reach the logs.
const requestIDMaxLen = 64

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("client error", fields...)
		default:
			log.Info("request done", fields...)
		}
	}
}

func bodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
