package main

import (
	"github.com/aretw0/segue/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes scene transitions over HTTP:

  POST /transition   run a transition ({"note", "style", "max", "background"})
  GET  /settings     effective settings
  PUT  /settings     update settings
  GET  /events       server-sent transition events
  GET  /health, /info, /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") && cfg.HTTP.Address != "" {
			addr = cfg.HTTP.Address
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		return cli.RunServe(cmd.Context(), app, cli.ServeOptions{
			Address:        addr,
			MetricsAddress: metricsAddr,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("metrics-addr", "", "Serve /metrics on a separate address")
}
