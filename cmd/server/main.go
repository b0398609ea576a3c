// Package main is the entry point for the GeoGate admin service.
// It initializes all systems and serves the admin API until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/GeoGateGo/internal/handlers"
	"github.com/PancyStudios/GeoGateGo/internal/handlers/system"
	"github.com/PancyStudios/GeoGateGo/pkg/config"
	"github.com/PancyStudios/GeoGateGo/pkg/discord"
	"github.com/PancyStudios/GeoGateGo/pkg/errors"
	"github.com/PancyStudios/GeoGateGo/pkg/logger"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/mqtt"
	"github.com/PancyStudios/GeoGateGo/pkg/realtime"
	"github.com/PancyStudios/GeoGateGo/pkg/settings"
	"github.com/PancyStudios/GeoGateGo/pkg/storage"
	"github.com/PancyStudios/GeoGateGo/pkg/web"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando GeoGate %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	// Initialize error handler; a fatal error stops everything below
	errHandler := errors.Init(cfg.ErrorWebhook, stop)

	// Initialize storage
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento (%s): %v", cfg.StorageDriver, err), "Main")
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando el almacenamiento: %v", err), "Main")
		}
	}()
	logger.Success(fmt.Sprintf("Almacenamiento '%s' listo.", backend.Name()), "Main")

	m := metrics.New()
	hub := realtime.NewHub(m)

	// Initialize settings store
	store := settings.New(backend,
		settings.WithKey(cfg.StorageKey),
		settings.WithLatency(cfg.StoreLatency),
		settings.WithMetrics(m),
		settings.WithListener("realtime", hub),
	)

	// Initialize MQTT
	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		cfg.MQTTClientID(),
	)
	defer mqttClient.Destroy()

	store.Subscribe("mqtt", mqtt.NewSettingsPublisher(mqttClient, mqtt.DefaultPrefix))
	// settings/# also matches the bare settings topic
	mqttClient.On("settings/#", mqtt.SettingsResponder(store.Load, 10*time.Second))

	// Audit trail
	if cfg.AuditWebhook != "" {
		audit, err := discord.NewWebhookClient(cfg.AuditWebhook, "GeoGate Audit")
		if err != nil {
			logger.Warn(fmt.Sprintf("Webhook de auditoría inválido: %v", err), "Main")
		} else if audit != nil {
			store.Subscribe("discord_audit", discord.NewAuditListener(audit))
		}
	}

	// Warm up: migrates a legacy document before the first request
	if current, err := store.Load(ctx); err != nil {
		logger.Error(fmt.Sprintf("No se pudo leer la configuración inicial: %v", err), "Main")
	} else {
		logger.Info(fmt.Sprintf("Configuración cargada: %d países bloqueados, %d restricciones horarias, %d excepciones.",
			current.BlockedCount(), len(current.TimeRestrictions), len(current.AffiliateExceptions)), "Main")
	}

	// Initialize web server
	var logSender discord.Sender
	if client, err := discord.NewWebhookClient(cfg.LogsWebhook, "GeoGate Web"); err == nil && client != nil {
		logSender = client
	}
	webServer, err := web.NewServer(web.Options{
		AllowedHosts: cfg.AllowedHosts,
		RateLimit:    cfg.RateLimitPerMinute,
		LogSender:    logSender,
		Metrics:      m,
		Recovery:     errHandler.GinRecovery(),
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}

	deps := handlers.Dependencies{
		Store:   store,
		Metrics: m,
		System: system.Options{
			Probes: map[string]system.Probe{
				"storage": func(ctx context.Context) (string, bool) { return storage.Status(ctx, backend) },
				"mqtt":    func(context.Context) (string, bool) { return mqttClient.Status() },
			},
			Hub:       hub,
			StartedAt: time.Now(),
		},
	}
	web.SetupAPIRoutes(webServer, deps.RegisterAll)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return webServer.Run(gctx, cfg.Port)
	})

	logger.Success("GeoGate iniciado correctamente!", "Main")

	if err := g.Wait(); err != nil {
		logger.Critical(fmt.Sprintf("El servicio se detuvo con error: %v", err), "Main")
		errHandler.Stop()
		os.Exit(1)
	}

	logger.System("Apagando GeoGate...", "Main")
	errHandler.Stop()
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
