package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "satprep",
	Short: "SAT practice question generator and auditor",
	Long: "satprep builds a deterministic, seeded SAT practice question list, audits any question " +
		"list for malformed, duplicated or wrongly answered items, and serves the list to the practice UI.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("db", "", "Audit history database: SQLite path or postgres:// URL (overrides SATPREP_DB env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config (or the defaults), applies --db, and lets
// override adjust fields from command flags before validation.
func loadConfig(cmd *cobra.Command, override func(cfg *config.Config) error) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("db") {
		cfg.Store.DSN, _ = cmd.Flags().GetString("db")
	}
	if override != nil {
		if err := override(&cfg); err != nil {
			return config.Config{}, err
		}
	}
	config.Normalize(&cfg)
	if err := config.Validate(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid settings:\n%w", err)
	}
	return cfg, nil
}

// stringFlag copies a string flag into dst when it was set.
func stringFlag(cmd *cobra.Command, name string, dst *string) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetString(name)
	}
}

// intFlag copies an int flag into dst when it was set.
func intFlag(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

// boolFlag copies a bool flag into dst when it was set.
func boolFlag(cmd *cobra.Command, name string, dst *bool) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetBool(name)
	}
}
