package cmd

import (
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update <markdown_path>",
	Short: "Re-send a note that is already linked to a Ghost post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, closeFn, err := newPublisher(cmd, true)
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := pub.Update(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printOutcome(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
