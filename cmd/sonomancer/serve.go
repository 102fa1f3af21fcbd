package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sonomancer/internal/config"
	"sonomancer/internal/search"
	"sonomancer/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Sonomancer server",
	Long: `Start the Sonomancer HTTP server.

The server provides:
  - /health and /ready                                    - Health checks
  - POST /api/books/upload                                - Upload an EPUB or PDF
  - GET  /api/books                                       - List uploaded books
  - GET  /api/books/{id}/chapters                         - List chapters
  - GET  /api/books/{id}/chapters/{index}                 - Get chapter text
  - GET  /api/books/{id}/chapters/{index}/ambience        - Find a soundscape

Examples:
  sonomancer serve                    # Start on default port 8000
  sonomancer serve --port 3000        # Start on custom port
  sonomancer serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Load configuration with hot-reload support
		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.WatchConfig()
		cfg := configMgr.Get()

		// Create YouTube search client
		searchSvc, err := search.NewYouTubeClient(ctx, search.YouTubeConfig{
			APIKey:     cfg.YouTubeAPIKey(),
			MaxRetries: cfg.YouTube.MaxRetries,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		port := servePort
		if port == "" && cfg.Server.Port != 0 {
			port = strconv.Itoa(cfg.Server.Port)
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          port,
			Search:        searchSvc,
			ConfigManager: configMgr,
			FrontendURL:   cfg.Server.FrontendURL,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")

	rootCmd.AddCommand(serveCmd)
}
