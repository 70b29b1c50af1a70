package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/segue/pkg/command"
	"github.com/spf13/cobra"
)

var transitionCmd = &cobra.Command{
	Use:     command.Name + " [note...]",
	Aliases: command.Aliases,
	Short:   "Insert a scene transition line into the chat",
	Long: `Generates a short in-character line that moves the conversation to a new
scene and appends it to the chat transcript as the active character.

Without a note, a generic transition is requested. --background forces (true)
or suppresses (false) the background regeneration; when omitted the persisted
auto_trigger_background setting decides, gated by the image backend availability.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		named := map[string]any{}
		if cmd.Flags().Changed(command.ParamStyle) {
			named[command.ParamStyle], _ = cmd.Flags().GetString(command.ParamStyle)
		}
		if cmd.Flags().Changed(command.ParamMax) {
			named[command.ParamMax], _ = cmd.Flags().GetInt(command.ParamMax)
		}
		if cmd.Flags().Changed(command.ParamBackground) {
			named[command.ParamBackground], _ = cmd.Flags().GetBool(command.ParamBackground)
		}

		outcome := app.Engine.InvokeNamed(cmd.Context(), named, strings.Join(args, " "))
		if outcome.IsError() {
			return errors.New(strings.TrimPrefix(outcome.String(), "Error: "))
		}

		fmt.Fprintln(cmd.OutOrStdout(), outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transitionCmd)

	transitionCmd.Flags().String(command.ParamStyle, "", "Style hint for the line (e.g. noir)")
	transitionCmd.Flags().Int(command.ParamMax, 0, "Token budget (default 120)")
	transitionCmd.Flags().Bool(command.ParamBackground, false, "Force or suppress background regeneration")
}
