package main

import (
	"fmt"

	"github.com/aretw0/segue/internal/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the scene transition settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		settings, err := app.Engine.Settings(cmd.Context())
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the settings; omitted flags keep their value",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		settings, err := app.Engine.Settings(cmd.Context())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("template") {
			settings.InstructionTemplate, _ = cmd.Flags().GetString("template")
		}
		if cmd.Flags().Changed("auto-background") {
			settings.AutoTriggerBackground, _ = cmd.Flags().GetBool("auto-background")
		}
		if err := app.Engine.UpdateSettings(cmd.Context(), settings); err != nil {
			return err
		}
		if err := persist(app); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Persist the default settings if none exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Engine.Initialize(cmd.Context()); err != nil {
			return err
		}
		if err := persist(app); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings initialized.")
		return nil
	},
}

// persist closes the app, which flushes pending settings to the store.
// Closing twice is harmless, so the deferred Close on error paths stays.
func persist(app *cli.App) error {
	if err := app.Close(); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsInitCmd)

	settingsSetCmd.Flags().String("template", "", "Instruction template (empty restores the default)")
	settingsSetCmd.Flags().Bool("auto-background", false, "Trigger background regeneration when a request does not decide")
}
