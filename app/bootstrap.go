package app

import (
	"fmt"
	"time"

	"botops-svc/app/handlers"
	"botops-svc/app/relay"
	"botops-svc/app/services"
	"botops-svc/storage/memory"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// App represents the application. Every store and service is constructed
// here and passed down explicitly; nothing lives in package-level state, so
// tests can build fresh instances at will.
type App struct {
	Config      *Config
	Commands    *memory.CommandTable
	Bots        *memory.Registry
	Logs        *memory.EventLog
	Messages    *memory.MessageLog
	Broadcaster *relay.Broadcaster
	Dispatcher  *services.DispatcherService
	Ingest      *services.IngestService
	Router      *gin.Engine
}

// Bootstrap initializes the application
func Bootstrap() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return BootstrapWithConfig(cfg)
}

// BootstrapWithConfig wires the application from an explicit config, which
// is what tests use.
func BootstrapWithConfig(cfg *Config) (*App, error) {
	// Stores
	commands := memory.NewCommandTable(cfg.MaxCommandsPerBot)
	bots := memory.NewRegistry()
	logs := memory.NewEventLog(cfg.MaxLogs)
	messages := memory.NewMessageLog(cfg.MaxMessages)

	// Event fan-out
	broadcaster := relay.NewBroadcaster(cfg.BroadcastQueueSize, cfg.BroadcastWait)

	// Services
	tokenService := services.NewTokenService(cfg.TokenSecret, cfg.TokenExpirationSec)
	dispatcher := services.NewDispatcherService(commands, bots, broadcaster)
	ingest := services.NewIngestService(bots, logs, messages, broadcaster)
	stats := services.NewStatsService(commands, bots, logs, messages)

	// HTTP handlers
	botHandler := handlers.NewBotHandler(ingest, bots, tokenService, cfg.TokenExpirationSec)
	commandHandler := handlers.NewCommandHandler(dispatcher, tokenService)
	eventHandler := handlers.NewEventHandler(ingest, stats, bots, tokenService)
	streamHandler := handlers.NewStreamHandler(broadcaster, dispatcher, cfg.SubscriberBuffer)

	// Setup HTTP router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(router, botHandler, commandHandler, eventHandler, streamHandler)

	return &App{
		Config:      cfg,
		Commands:    commands,
		Bots:        bots,
		Logs:        logs,
		Messages:    messages,
		Broadcaster: broadcaster,
		Dispatcher:  dispatcher,
		Ingest:      ingest,
		Router:      router,
	}, nil
}

// Close drains and stops the broadcaster.
func (a *App) Close() {
	a.Broadcaster.Close()
}

// setupRoutes configures HTTP routes
func setupRoutes(
	router *gin.Engine,
	botHandler *handlers.BotHandler,
	commandHandler *handlers.CommandHandler,
	eventHandler *handlers.EventHandler,
	streamHandler *handlers.StreamHandler,
) {
	// Health endpoints
	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Observer event stream
	router.GET("/ws", streamHandler.Events)

	api := router.Group("/api")
	{
		// Bot registry (operator reads, bot writes)
		api.POST("/bots/register", botHandler.Register)
		api.GET("/bots", botHandler.List)
		api.GET("/bot/:bot_id/status", botHandler.GetStatus)
		api.POST("/bot/:bot_id/status", botHandler.ReportStatus)
		api.POST("/bot/:bot_id/sync", botHandler.Sync)
		api.GET("/bot/:bot_id/data", botHandler.GetData)

		// Command dispatch
		api.POST("/commands", commandHandler.Submit)           // Operator
		api.GET("/commands", commandHandler.List)              // Operator
		api.GET("/commands/:command_id", commandHandler.Get)   // Operator
		api.GET("/bot/:bot_id/commands", commandHandler.Poll)  // Bot
		api.POST("/commands/:command_id/ack", commandHandler.Ack)

		// Logs and messages
		api.GET("/logs", eventHandler.GetLogs)
		api.POST("/bot/:bot_id/logs", eventHandler.PushLogs)
		api.GET("/messages", eventHandler.GetMessages)
		api.POST("/bot/:bot_id/messages", eventHandler.PushMessage)

		// Stats and exports
		api.GET("/stats/overview", eventHandler.StatsOverview)
		api.GET("/stats/bot/:bot_id", eventHandler.StatsBot)
		api.GET("/export/logs", eventHandler.ExportLogs)
		api.GET("/export/messages", eventHandler.ExportMessages)
		api.GET("/export/bot-data/:bot_id", eventHandler.ExportBotData)
	}
}
