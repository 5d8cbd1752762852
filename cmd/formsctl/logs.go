package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uemf/forms-api/pkg/config"
	"github.com/uemf/forms-api/pkg/logging"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Read back today's operation log",
	Long: `Read back the most recent complete operation block from today's log.

By default only the warning lines are shown. Use --all for the whole
block including the start and end markers.

Example:
  formsctl logs
  formsctl logs --all`,
	Run: func(cmd *cobra.Command, args []string) {
		all, _ := cmd.Flags().GetBool("all")

		if err := showLogs(all); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read logs: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().Bool("all", false, "show the whole operation block, not just warnings")
}

func showLogs(all bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reader := logging.NewReader(cfg.LogDir)

	var lines []logging.Line
	if all {
		lines, err = reader.LastOperation()
	} else {
		lines, err = reader.Warnings()
	}
	if err != nil {
		return err
	}

	if len(lines) == 0 {
		fmt.Println("No log lines found")
		return nil
	}
	for _, line := range lines {
		fmt.Printf("%s %-7s %s\n", line.Time, line.Level, line.Message)
	}
	return nil
}
