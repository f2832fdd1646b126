package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"urlsort/internal/logging"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var day string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display the log file of a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			when := ctx.now()
			if day != "" {
				when, err = time.ParseInLocation(time.DateOnly, day, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --day %q: want YYYY-MM-DD", day)
				}
			}

			entries, err := logging.TailFile(logging.DailyLogFile(cfg.Paths.LogDir, when), lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No log entries available")
				return nil
			}
			for _, line := range entries {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of trailing lines to show (0 for all)")
	cmd.Flags().StringVar(&day, "day", "", "Day to show (YYYY-MM-DD, default today)")
	return cmd
}
