package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "formsctl",
	Short: "UEMF forms API server and tooling",
	Long:  `formsctl runs the UEMF forms API server and manages its database and logs.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
