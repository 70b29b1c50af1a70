package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/segue"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of segue",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "segue version %s\n", strings.TrimSpace(segue.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
