// Package web provides an HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/GeoGateGo/pkg/discord"
	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Options configures a Server
type Options struct {
	// AllowedHosts is a regular expression matched against the Host header; empty allows all
	AllowedHosts string
	// RateLimit is the number of requests per IP per minute; zero disables limiting
	RateLimit    int
	// LogSender receives one embed per request when set
	LogSender    discord.Sender
	Metrics      *metrics.Metrics
	// Recovery replaces gin.Recovery
	Recovery     gin.HandlerFunc
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	logSender        discord.Sender
	allowedHostRegex *regexp.Regexp
	metrics          *metrics.Metrics
	rateLimit        RateLimitConfig
}

// NewServer creates a new web server
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	if opts.Recovery != nil {
		engine.Use(opts.Recovery)
	} else {
		engine.Use(gin.Recovery())
	}

	s := &Server{
		engine:    engine,
		logSender: opts.LogSender,
		metrics:   opts.Metrics,
		rateLimit: RateLimitConfig{WindowMs: 60 * time.Second, MaxRequests: opts.RateLimit},
	}
	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed hosts pattern: %w", err)
		}
		s.allowedHostRegex = re
	}

	s.engine.Use(s.metricsMiddleware())
	s.engine.Use(s.logsMiddleware())
	if s.rateLimit.MaxRequests > 0 {
		s.engine.Use(s.rateLimitMiddleware())
	}

	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// metricsMiddleware records every request by matched route
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.metrics == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), start)
	}
}

// logsMiddleware logs incoming requests and rejects hosts outside the allow list
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host

		if s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host) {
			logger.Info(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			s.sendLogToWebhook(c, false)
			c.Next()
			return
		}

		logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
		s.sendLogToWebhook(c, true)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "Forbidden",
			"message": "Host no permitido.",
			"status":  http.StatusForbidden,
		})
	}
}

// sendLogToWebhook sends a log message to the Discord webhook in the background
func (s *Server) sendLogToWebhook(c *gin.Context, suspicious bool) {
	if s.logSender == nil {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", c.Request.Method)
	color := 0x00AE86

	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", c.Request.Method, c.Request.URL.Path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(c.Request.Header)
	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Description: fmt.Sprintf(
			"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
			c.Request.URL.Path,
			c.ClientIP(),
			string(headers),
			query,
		),
		Color: color,
	}
	go func() { _ = s.logSender.Send(embed) }()
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowMs    time.Duration
	MaxRequests int
}

// rateLimitMiddleware implements a fixed window limiter per client IP
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	limiter := newRateLimiter(s.rateLimit)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}

		c.Next()
	}
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

// rateLimiter counts requests per IP. Expired windows are swept at most once per window.
type rateLimiter struct {
	config RateLimitConfig

	mu        sync.Mutex
	clients   map[string]*clientWindow
	nextSweep time.Time
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		config:  config,
		clients: make(map[string]*clientWindow),
	}
}

func (l *rateLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for key, w := range l.clients {
			if now.After(w.resetAt) {
				delete(l.clients, key)
			}
		}
		l.nextSweep = now.Add(l.config.WindowMs)
	}

	w, exists := l.clients[ip]
	if !exists || now.After(w.resetAt) {
		w = &clientWindow{resetAt: now.Add(l.config.WindowMs)}
		l.clients[ip] = w
	}
	w.count++
	return w.count <= l.config.MaxRequests
}

func (l *rateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Run serves on port until ctx ends, then shuts down gracefully
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + strings.TrimPrefix(port, ":"),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost%s", srv.Addr), "WebServer")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.System("Deteniendo servidor web...", "WebServer")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web server: %w", err)
	}
	return <-errCh
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
