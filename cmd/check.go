package cmd

import (
	"fmt"

	"ghost-publisher/internal/checks"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <markdown_path>",
	Short: "Run the pre-publish checks without contacting Ghost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, closeFn, err := newPublisher(cmd, false)
		if err != nil {
			return err
		}
		defer closeFn()

		report, _, err := pub.Check(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := checks.Render(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Valid {
			return fmt.Errorf("%d check(s) failing", len(report.Errors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
