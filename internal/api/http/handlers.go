package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GalacticDynamics/vector/internal/api/middleware"
	"github.com/GalacticDynamics/vector/internal/codec"
	"github.com/GalacticDynamics/vector/internal/convert"
	"github.com/GalacticDynamics/vector/internal/monitoring"
)

// Version is reported by the root and health endpoints.
const Version = "0.1.0"

// maxBodyBytes bounds request documents.
const maxBodyBytes = 8 << 20

// Handlers contains all HTTP handlers.
type Handlers struct {
	conv    *convert.Converter
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(conv *convert.Converter, metrics *monitoring.Metrics, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{conv: conv, metrics: metrics, log: log}
}

// Register mounts the routes on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	v1.GET("/types", h.Types)
	v1.POST("/convert", h.Convert)
	v1.POST("/jacobian", h.Jacobian)
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "vector conversion engine",
		"version": Version,
	})
}

// Health handles detailed health check.
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":       "healthy",
		"version":      Version,
		"rules":        len(h.conv.Registry().Rules()),
		"lossy_policy": h.conv.LossyPolicy().String(),
	}
	if h.metrics != nil {
		body["stats"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Types lists the vector catalog with triad links.
func (h *Handlers) Types(c *gin.Context) {
	h.respond(c, http.StatusOK, gin.H{"types": codec.Describe()})
}

// Convert converts a position, velocity or acceleration.
func (h *Handlers) Convert(c *gin.Context) {
	var req codec.ConvertRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := codec.Execute(h.conv, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, resp)
}

// Jacobian returns per-element Jacobians of a position map.
func (h *Handlers) Jacobian(c *gin.Context) {
	var req codec.JacobianRequest
	if !h.bind(c, &req) {
		return
	}
	resp, err := codec.Jacobian(h.conv, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, http.StatusOK, resp)
}

// bind decodes the JSON body into v, answering 400 on failure.
func (h *Handlers) bind(c *gin.Context, v any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	data, err := c.GetRawData()
	if err == nil {
		err = codec.Unmarshal(data, codec.JSON, v)
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Category:  "bad_request",
			RequestID: middleware.GetRequestID(c),
		})
		return false
	}
	return true
}

// respond writes v with the sonic encoder.
func (h *Handlers) respond(c *gin.Context, status int, v any) {
	data, err := codec.Marshal(v, codec.JSON, false)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
