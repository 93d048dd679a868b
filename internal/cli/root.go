// Package cli contains the bizpulse command-line commands.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"BizPulse/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

var (
	cfgFile string
	version = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bizpulse",
	Short: "Business analytics dashboard service",
	Long: `bizpulse serves an interactive business analytics dashboard over a
seeded synthetic daily dataset: headline KPIs, a moving-average trend and
descriptive statistics, recomputed live as viewers adjust their inputs.

Example usage:
  bizpulse serve                     # Run the dashboard server
  bizpulse snapshot --metric users   # Render one snapshot to the terminal
  bizpulse snapshot --json           # Same snapshot as JSON
  bizpulse version                   # Print build information`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file path")
}

// loadConfig resolves the effective configuration: optional .env, then the
// config file, then BIZPULSE_* environment overrides. A missing file at the
// default path is fine (defaults apply); an explicit --config must exist.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	path := cfgFile
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			path = ""
		}
	}
	return config.LoadWithEnv(path)
}
