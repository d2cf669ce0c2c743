package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowsmith/flowsmith"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowsmith",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("flowsmith version %s\n", strings.TrimSpace(flowsmith.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
