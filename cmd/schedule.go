package cmd

import (
	"time"

	"ghost-publisher/internal/publisher"

	"github.com/spf13/cobra"
)

var scheduleAt string

var scheduleCmd = &cobra.Command{
	Use:   "schedule <markdown_path>",
	Short: "Schedule a markdown note; prompts for the time unless --at is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var prompt publisher.SchedulePrompt = publisher.LinePrompt{
			In:  cmd.InOrStdin(),
			Out: cmd.ErrOrStderr(),
			Loc: time.Local,
		}
		if scheduleAt != "" {
			at, err := publisher.ParseTime(scheduleAt, time.Local)
			if err != nil {
				return err
			}
			prompt = publisher.FixedPrompt(at)
		}

		pub, closeFn, err := newPublisher(cmd, true)
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := pub.Schedule(cmd.Context(), args[0], prompt)
		if err != nil {
			return err
		}
		printOutcome(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleAt, "at", "", "publication time (RFC3339 or \"2006-01-02 15:04\")")
	rootCmd.AddCommand(scheduleCmd)
}
