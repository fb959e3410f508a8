package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/upskill"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of upskill",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "upskill version %s\n", strings.TrimSpace(upskill.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
