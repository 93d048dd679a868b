package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"BizPulse/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	Long: `Start the HTTP server: the REST dashboard API, per-session input
streams over WebSocket and the Prometheus scrape endpoint. Blocks until
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "override server.port from the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log.Printf("env=%s port=%d", cfg.Environment, cfg.Server.Port)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}

	// Run application (blocks until signal)
	return app.Run()
}
