package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/borderless-chess/internal/archive"
	"github.com/benbeisheim/borderless-chess/internal/config"
	"github.com/benbeisheim/borderless-chess/internal/controller"
	"github.com/benbeisheim/borderless-chess/internal/service"
	"github.com/benbeisheim/borderless-chess/internal/uci"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (default: search upward from the working directory)")
	addr := flag.String("addr", "", "listen address (overrides config and BCHESS_ADDR)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := service.ManagerOptions{
		MoveTime: cfg.Engine.MoveTime(),
		Retries:  cfg.Engine.Retries,
	}
	session := startEngine(ctx, cfg.Engine)
	if session != nil {
		defer session.Close()
		opts.Oracles = session
	}
	if cfg.ArchiveDir != "" {
		w, err := archive.NewWriter(cfg.ArchiveDir)
		if err != nil {
			log.Fatalf("archive: %v", err)
		}
		opts.Archive = w
		log.Printf("Archiving finished games to %s", cfg.ArchiveDir)
	}

	gameManager := service.NewGameManager(opts)
	gameService := service.NewGameService(gameManager)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	controller.SetupRoutes(app, gameService, splitOrigins(cfg.AllowOrigins))

	go func() {
		<-ctx.Done()
		log.Printf("Shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("HTTP listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
	gameManager.Close()
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path == "" {
		found, err := config.Find()
		switch {
		case err == nil:
			path = found
		case errors.Is(err, os.ErrNotExist):
			log.Printf("No %s found, using defaults", config.FileName)
		default:
			return cfg, err
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		log.Printf("Loaded config from %s", path)
	}
	return cfg, cfg.ApplyEnv()
}

// startEngine launches the configured engine. Failures are logged and the
// server runs without one.
func startEngine(ctx context.Context, ec config.EngineConfig) *uci.Session {
	if ec.Path == "" {
		log.Printf("No engine configured; engine games play random legal moves")
		return nil
	}
	session, err := uci.StartSession(ctx, ec.Path, ec.Args...)
	if err != nil {
		log.Printf("engine: %v", err)
		return nil
	}
	hctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	name, err := session.Handshake(hctx)
	if err != nil {
		log.Printf("engine handshake: %v", err)
		_ = session.Close()
		return nil
	}
	if err := session.SetDifficulty(hctx, ec.Difficulty); err != nil {
		log.Printf("engine difficulty: %v", err)
	}
	log.Printf("Engine ready: %s", name)
	return session
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
