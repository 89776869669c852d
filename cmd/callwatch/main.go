package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/checkpoint"
	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/handlers"
	"github.com/ternarybob/callwatch/internal/identity"
	"github.com/ternarybob/callwatch/internal/router"
	"github.com/ternarybob/callwatch/internal/server"
	"github.com/ternarybob/callwatch/internal/watcher"
	"github.com/ternarybob/callwatch/internal/webpush"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Callwatch version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> files -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	if len(configFiles) == 0 {
		if _, err := os.Stat("callwatch.toml"); err == nil {
			configFiles = append(configFiles, "callwatch.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, *serverPort, *serverHost)

	logger = common.InitLogger(config)

	common.PrintBanner(common.GetVersion())

	// Malformed configuration never starts the process
	if err := common.Validate(config); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	logger.Info().
		Strs("config_files", configFiles).
		Str("router_ip", config.Router.IP).
		Int("destinations", len(config.Destinations)).
		Int("selfs", len(config.Selfs)).
		Msg("Application configuration loaded")

	// Wire services: one push service instance is shared by the
	// polling pipeline and the subscription API.
	pushService, err := webpush.NewService(&config.WebPush, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize web push service")
		os.Exit(1)
	}

	checkpointStore := checkpoint.NewStore(config.Checkpoint.Path, logger)
	routerClient := router.NewClient(&config.Router, config.Watcher.LogRecords, logger)
	resolver := identity.NewResolver(config, logger)

	watcherService := watcher.NewService(config, routerClient, checkpointStore, resolver, pushService, logger)
	if err := watcherService.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start watcher")
		os.Exit(1)
	}
	defer watcherService.Stop()

	pushHandler := handlers.NewPushHandler(config, pushService, logger)
	srv := server.New(config, pushHandler, logger)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Stopped")
}
