package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"ghost-publisher/internal/storage"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <markdown_path>",
	Short: "Show recent publishes of a note (requires redis.enabled)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if !cfg.Redis.Enabled {
			return errors.New("publish history needs redis: set redis.enabled in config.yaml")
		}
		rdb, err := openRedis(cmd.Context())
		if err != nil {
			return err
		}
		defer rdb.Close()

		recs, err := storage.NewRedisStore(rdb, cfg.Publish.HistorySize).History(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No publishes recorded.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "WHEN\tOP\tPOST\tSTATUS\tNOTE")
		for _, r := range recs {
			note := r.URL
			if r.WriteErr != "" {
				note = "write-back failed: " + r.WriteErr
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.At.Local().Format(time.DateTime), r.Op, r.PostID, r.Status, note)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
