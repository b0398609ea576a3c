package system

import (
	"net/http"
	"sort"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/config"
	"github.com/gin-gonic/gin"
)

type componentStatus struct {
	Status  string `json:"status"`
	Healthy bool   `json:"healthy"`
}

type statusResponse struct {
	Status           string                     `json:"status"`
	Version          string                     `json:"version"`
	Uptime           string                     `json:"uptime"`
	Components       map[string]componentStatus `json:"components"`
	WebsocketClients int                        `json:"websocketClients"`
}

// statusHandler reports every probe; any unhealthy component degrades the service
func statusHandler(opts Options) gin.HandlerFunc {
	names := make([]string, 0, len(opts.Probes))
	for name := range opts.Probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		resp := statusResponse{
			Status:     "ok",
			Version:    config.Version,
			Uptime:     time.Since(opts.StartedAt).Round(time.Second).String(),
			Components: make(map[string]componentStatus, len(names)),
		}
		for _, name := range names {
			line, healthy := opts.Probes[name](c.Request.Context())
			resp.Components[name] = componentStatus{Status: line, Healthy: healthy}
			if !healthy {
				resp.Status = "degraded"
			}
		}
		if opts.Hub != nil {
			resp.WebsocketClients = opts.Hub.ClientCount()
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
