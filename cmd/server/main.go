package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Stryder91/Chess/internal/config"
	"github.com/Stryder91/Chess/internal/controller"
	"github.com/Stryder91/Chess/internal/middleware"
	"github.com/Stryder91/Chess/internal/service"
	"github.com/Stryder91/Chess/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := cfg.Logger(os.Stderr)

	archive, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to open game archive")
	}

	app := newApp(cfg, log, archive)

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Str("data", cfg.DataDir).Msg("chess server listening")
	if err := serve(app, archive, cfg.Addr, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newApp(cfg config.Config, log zerolog.Logger, archive *storage.Archive) *fiber.App {
	// Immutable: player and game ids outlive the request that carried them.
	app := fiber.New(fiber.Config{DisableStartupMessage: true, Immutable: true})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(archive, log)
	gameService := service.NewGameService(gameManager, log)

	// Initialize controllers
	gameController := controller.NewGameController(gameService, log)
	wsController := controller.NewWebSocketController(gameService, log)

	controller.RegisterRoutes(app, gameController, wsController, splitOrigins(cfg.AllowOrigins))
	return app
}

// serve blocks until the server stops, then closes the archive so badger
// flushes whichever way the listener ended.
func serve(app *fiber.App, archive *storage.Archive, addr string, log zerolog.Logger) error {
	listenErr := app.Listen(addr)
	if err := archive.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close game archive")
	}
	return listenErr
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
