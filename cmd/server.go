package cmd

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bascanada/fhirquery/pkg/api"
	"github.com/bascanada/fhirquery/pkg/config"
	"github.com/bascanada/fhirquery/pkg/server"
)

var (
	port int
	host string
)

var serverCmd = &cobra.Command{
	Use:    "server",
	Short:  "Start the fhirquery server",
	Long:   `Starts an HTTP server exposing query validation as an API, with hot reload of the configuration file.`,
	PreRun: onCommandStart,
	Run: func(_ *cobra.Command, _ []string) {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

		logger.Info("loading configuration", "path", configPath)
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			// Provide a clearer, actionable message depending on the error type.
			switch {
			case errors.Is(err, config.ErrConfigParse):
				logger.Error("invalid configuration file format", "path", configPath, "err", err, "hint", "check YAML/JSON syntax and types")
				os.Exit(1)
			case errors.Is(err, config.ErrConfigNotFound):
				logger.Warn("no configuration found, starting with built-in defaults", "path", configPath)
				cfg = nil
			default:
				logger.Error("failed to load configuration", "path", configPath, "err", err)
				os.Exit(1)
			}
		}

		watchPath := ""
		if cfg != nil {
			watchPath = config.ResolvePath(configPath)
		}

		s := server.NewServer(host, strconv.Itoa(port), cfg, watchPath, logger, api.OpenAPISpec)

		if err := s.Start(); err != nil {
			logger.Error("server failed to start", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	serverCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serverCmd.Flags().StringVarP(&host, "host", "H", "0.0.0.0", "Host to bind to")
}
