// Package main provides the entry point for the Aether server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aether-ai/aether/internal/config"
	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/internal/mcp"
	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/internal/server"
)

var (
	port      = flag.Int("port", 0, "Server port (overrides config)")
	directory = flag.String("directory", "", "Working directory")
	version   = flag.Bool("version", false, "Print version and exit")
)

const Version = "0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("aether-server %s\n", Version)
		os.Exit(0)
	}

	workDir := *directory
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to get working directory")
		}
	}

	// .env is optional; real env vars win over it
	_ = godotenv.Load()

	appConfig, err := config.Load(workDir)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{Level: logging.ParseLevel(appConfig.LogLevel)})
	logging.Info().Str("version", Version).Str("directory", workDir).Msg("starting aether server")

	providers, err := provider.Initialize(appConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("no usable model providers")
	}

	ctx := context.Background()
	var mcpClient *mcp.Client
	if len(appConfig.MCP) > 0 {
		mcpClient = mcp.Initialize(ctx, appConfig.MCP)
		defer mcpClient.Close()
	}

	serverConfig := server.DefaultConfig()
	if *port > 0 {
		serverConfig.Port = *port
	} else if appConfig.Port > 0 {
		serverConfig.Port = appConfig.Port
	}

	srv := server.New(serverConfig, appConfig, providers, mcpClient)

	go func() {
		logging.Info().Int("port", serverConfig.Port).Msg("server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}

	logging.Info().Msg("server stopped")
}
