package cmd

import (
	"context"
	"fmt"
	"time"

	"ghost-publisher/internal/redisclient"

	"github.com/spf13/cobra"
)

// pingCmd pings the Redis server backing the publish lock and history.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and print PONG",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, journal enabled: %t)\n", res, cfg.Redis.Addr, cfg.Redis.Enabled)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}
