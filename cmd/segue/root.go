package main

import (
	"fmt"
	"os"

	"github.com/aretw0/segue/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "segue",
	Short: "Segue moves a roleplay chat into a new scene",
	Long: `Segue asks a language model for a short in-character line that transitions
the conversation to a new scene, inserts it into the chat as the active
character, and can trigger a background regeneration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", cli.DefaultConfigPath, "Path to the segue config file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides the config)")
}

// openApp loads the config named by the persistent flags and wires the app.
func openApp(cmd *cobra.Command) (*cli.App, cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, cli.Config{}, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, cli.Config{}, err
	}

	app, err := cli.NewApp(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, cli.Config{}, err
	}
	return app, cfg, nil
}
