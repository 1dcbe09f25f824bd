package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	resp "panchayat-portal/internal/transport/http/response"
)

// Health serves liveness, readiness and the Prometheus scrape endpoint at the engine root.
type Health struct {
	Ready func(ctx context.Context) error // nil means always ready
	Log   *zap.Logger
}

func (h Health) Mount(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK("", gin.H{"ok": 1})) })
	r.GET("/ready", func(c *gin.Context) {
		if h.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := h.Ready(ctx); err != nil {
				h.Log.Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, resp.Error(http.StatusServiceUnavailable, "storage unavailable"))
				return
			}
		}
		c.JSON(http.StatusOK, resp.OK("", gin.H{"ready": true}))
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
