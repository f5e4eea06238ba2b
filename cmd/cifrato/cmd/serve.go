package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cifrato/invoice-backend/internal/config"
	"github.com/cifrato/invoice-backend/internal/logger"
	"github.com/cifrato/invoice-backend/internal/server"
)

var (
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the invoice ingestion and classification API.

Endpoints:
  - POST /api/v1/auth/register                   - Create a tenant account
  - POST /api/v1/auth/login                      - Obtain an access token
  - POST /api/v1/invoices/upload                 - Upload a UBL invoice XML
  - GET  /api/v1/invoices                        - List invoices
  - GET  /api/v1/invoices/:id                    - Invoice detail with suggestions
  - POST /api/v1/invoices/:id/suggestions        - (Re)generate suggestions
  - POST /api/v1/invoices/:id/suggestions/select - Select a suggestion
  - GET  /api/v1/invoices/export                 - Download the Excel export
  - POST /api/v1/puc/upload                      - Upload a PUC catalog
  - GET  /api/v1/puc                             - List PUC accounts
  - GET  /api/v1/puc/stats                       - PUC catalog stats
  - GET  /health                                 - Health check

Configuration comes from the environment (a .env file is honored):
JWT_SECRET (required), PORT, HOST, AI_API_KEY, AI_BASE_URL, AI_MODEL,
ACCESS_TOKEN_TTL_MINUTES, LOG_LEVEL, LOG_FORMAT.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Address:        cfg.Addr(),
		AIAPIKey:       cfg.AIAPIKey,
		AIBaseURL:      cfg.AIBaseURL,
		AIModel:        cfg.AIModel,
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		Debug:          serverDebug,
	})

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", cfg.Addr())
	if cfg.AIAPIKey != "" {
		fmt.Println("AI classification enabled")
	} else {
		fmt.Println("AI classification disabled (no API key), fallback suggestions only")
	}

	return srv.Run()
}
