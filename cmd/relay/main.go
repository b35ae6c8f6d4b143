package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lmittmann/tint"
	"github.com/videocall/relay/internal/config"
	"github.com/videocall/relay/internal/signalling"
)

func main() {
	setupLogger()

	confDir := os.Getenv("RELAY_CONF_DIR")
	if confDir == "" {
		confDir = "conf"
	}

	manager, err := config.NewManager(confDir)
	if err != nil {
		log.Fatalf("can not load configuration, error - %v", err)
	}
	cfg := manager.Get()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	server := signalling.NewServer(manager, app)
	defer server.Close()

	server.SetupWebSocketsAndApi()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	if cfg.Security.TLSCrtFile != nil && cfg.Security.TLSKeyFile != nil {
		slog.Info("running TLS server", "addr", addr)
		log.Fatal(app.ListenTLS(addr, *cfg.Security.TLSCrtFile, *cfg.Security.TLSKeyFile))
	} else {
		slog.Info("running server", "addr", addr)
		log.Fatal(app.Listen(addr))
	}
}

func setupLogger() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("RELAY_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: level,
	})))
}
