package cmd

import (
	"errors"
	"time"

	"ghost-publisher/internal/metadata"
	"ghost-publisher/internal/publisher"

	"github.com/spf13/cobra"
)

var (
	publishStatus string
	publishAt     string
)

var publishCmd = &cobra.Command{
	Use:   "publish <markdown_path>",
	Short: "Publish a markdown note to Ghost as draft, published or scheduled",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("requires <markdown_path>")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		req := publisher.Request{Status: publishStatus}
		if publishAt != "" {
			at, err := publisher.ParseTime(publishAt, time.Local)
			if err != nil {
				return err
			}
			req.PublishAt = at
			if req.Status == metadata.StatusDraft && !cmd.Flags().Changed("status") {
				req.Status = metadata.StatusScheduled
			}
		}

		pub, closeFn, err := newPublisher(cmd, true)
		if err != nil {
			return err
		}
		defer closeFn()

		out, err := pub.Publish(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		printOutcome(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishStatus, "status", metadata.StatusDraft, "draft, published or scheduled")
	publishCmd.Flags().StringVar(&publishAt, "at", "", "publication time for scheduled posts (RFC3339 or \"2006-01-02 15:04\")")
	rootCmd.AddCommand(publishCmd)
}
