package main

import (
	"os"

	"github.com/aretw0/segue/internal/cli"
	"github.com/aretw0/segue/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an interactive chat where /transition inserts scene lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cfg, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		headless, _ := cmd.Flags().GetBool("headless")
		if !cmd.Flags().Changed("headless") {
			headless = !tui.IsInteractive(os.Stdin)
		}

		return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			Headless: headless,
			User:     cfg.Chat.User,
			Input:    cmd.InOrStdin(),
			Output:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("headless", false, "No banner, prompts or markdown rendering (default when stdin is not a terminal)")
}
