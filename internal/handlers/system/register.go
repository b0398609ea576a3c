// Package system serves health, status and the live update socket.
package system

import (
	"context"
	"net/http"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/realtime"
	"github.com/gin-gonic/gin"
)

// Probe reports a component status line and whether it is healthy
type Probe func(ctx context.Context) (string, bool)

// Options wires the system routes
type Options struct {
	// Probes are reported by /status in name order
	Probes    map[string]Probe
	Hub       *realtime.Hub
	StartedAt time.Time
}

// RegisterSystemRoutes mounts /health, /status and /ws
func RegisterSystemRoutes(api *gin.RouterGroup, opts Options) {
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/status", statusHandler(opts))

	if opts.Hub != nil {
		api.GET("/ws", gin.WrapF(opts.Hub.ServeWS))
	}
}
