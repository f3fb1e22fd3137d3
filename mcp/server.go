package mcp

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vlm-annotator/annotator/client"
	"github.com/vlm-annotator/annotator/internal/logger"
	"github.com/vlm-annotator/annotator/mcp/internal/handlers"
)

// config holds all settings for the MCP server.
type config struct {
	BaseURL         string
	ListenAddr      string
	LogLevel        zerolog.Level
	ServerName      string
	ServerVersion   string
	ShutdownTimeout time.Duration
	HTTPReadTimeout time.Duration
	HTTPIdleTimeout time.Duration
}

// loadConfig loads configuration from environment variables and flags
func loadConfig(args []string) (*config, error) {
	cfg := &config{
		BaseURL:         getEnvOrDefault("ANNOTATOR_BASE_URL", "http://localhost:5000/api"),
		ListenAddr:      getEnvOrDefault("MCP_LISTEN_ADDR", ":5051"),
		ServerName:      getEnvOrDefault("MCP_SERVER_NAME", "annotator-mcp-server"),
		ServerVersion:   getEnvOrDefault("MCP_SERVER_VERSION", "0.1.0"),
		ShutdownTimeout: parseDurationOrDefault("SHUTDOWN_TIMEOUT", "10s"),
		HTTPReadTimeout: parseDurationOrDefault("HTTP_READ_TIMEOUT", "5s"),
		HTTPIdleTimeout: parseDurationOrDefault("HTTP_IDLE_TIMEOUT", "120s"),
	}
	cfg.LogLevel = parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info"))

	// Command line flags override env vars.
	fs := flag.NewFlagSet("annotator-mcp-server", flag.ContinueOnError)
	var rawLogLevel string
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL of the annotation backend API")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Listen address for the Streamable HTTP transport")
	fs.StringVar(&rawLogLevel, "log-level", cfg.LogLevel.String(), "Log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if rawLogLevel != "" {
		cfg.LogLevel = parseLogLevel(rawLogLevel)
	}
	return cfg, nil
}

// initLogger installs the service logger on stderr; stdout belongs to the
// stdio transport.
func (c *config) initLogger() {
	zerolog.SetGlobalLevel(c.LogLevel)
	log.Logger = logger.New(c.ServerName).Level(c.LogLevel).With().Caller().Logger()
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(envKey, defaultValue string) time.Duration {
	if value := os.Getenv(envKey); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	d, _ := time.ParseDuration(defaultValue)
	return d
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds the MCP server with every annotation tool registered
// against c.
func NewServer(c *client.Client, name, version string) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		// Advertise empty resources & prompts so hosts stop returning
		// -32601 for resources/list and prompts/list.
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	)

	regs := []struct {
		name string
		h    toolRegisterer
	}{
		{"config", handlers.NewConfigHandler(c)},
		{"folder", handlers.NewFolderHandler(c)},
		{"image", handlers.NewImageHandler(c)},
		{"annotation", handlers.NewAnnotationHandler(c)},
		{"prompts", handlers.NewPromptsHandler()},
	}
	for _, r := range regs {
		if err := r.h.RegisterTools(s); err != nil {
			return nil, err
		}
		log.Debug().Str("handler", r.name).Msg("tools registered")
	}
	return s, nil
}

// RunMCPServer starts the MCP server with configuration from the
// environment and command line.
func RunMCPServer() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg.initLogger()

	settings, err := client.LoadSettings()
	if err != nil {
		return err
	}
	settings.BaseURL = cfg.BaseURL
	log.Info().Str("base_url", cfg.BaseURL).Msg("Creating annotation client")
	annotator, err := client.NewFromSettings(settings, client.WithLogger(log.Logger))
	if err != nil {
		log.Error().Stack().Err(err).Msg("Failed to create client")
		return err
	}

	s, err := NewServer(annotator, cfg.ServerName, cfg.ServerVersion)
	if err != nil {
		return err
	}

	if shouldUseStdio() {
		// Stdio transport (desktop hosts, launched processes)
		log.Info().Msg("Starting annotator MCP server (stdio transport)")
		return server.ServeStdio(s)
	}

	log.Info().Str("addr", cfg.ListenAddr).Msg("Starting annotator MCP server (Streamable HTTP)")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      streamSrv,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: 0, // SSE streams have no deadline
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Error during MCP server shutdown")
		}
		if err := annotator.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing annotation client")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio determines whether to use stdio transport based on environment
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	// Use stdio if stdin is not a terminal (launched by another process).
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
