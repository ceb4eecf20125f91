package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"ghost-publisher/internal/checks"
	"ghost-publisher/internal/ghost"
	"ghost-publisher/internal/markdown"
	"ghost-publisher/internal/publisher"
	"ghost-publisher/internal/redisclient"
	"ghost-publisher/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// newPublisher wires the Ghost client, the note store and, when redis.enabled
// is set, the Redis journal. The returned func closes what was opened.
func newPublisher(cmd *cobra.Command, showReport bool) (*publisher.Publisher, func(), error) {
	cfg := GetConfig()
	creds := cfg.Credentials()

	opts := publisher.Options{
		Store:       markdown.NewFileStore(),
		API:         ghost.New(creds, cfg.GhostTimeout()),
		Credentials: creds,
		Format:      cfg.Ghost.Format,
		LockTTL:     cfg.LockTTL(),
		Notifier:    stderrNotifier(cmd.ErrOrStderr()),
	}
	if showReport {
		out := cmd.OutOrStdout()
		opts.OnReport = func(r checks.Report) { _ = checks.Render(out, r) }
	}

	closeFn := func() {}
	if cfg.Redis.Enabled {
		rdb, err := openRedis(cmd.Context())
		if err != nil {
			return nil, nil, err
		}
		opts.Journal = storage.NewRedisStore(rdb, cfg.Publish.HistorySize)
		closeFn = func() { _ = rdb.Close() }
	}
	return publisher.New(opts), closeFn, nil
}

// openRedis connects and pings the configured Redis server.
func openRedis(ctx context.Context) (*redis.Client, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rdb := redisclient.New(GetConfig().Redis)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	return rdb, nil
}

func stderrNotifier(w io.Writer) publisher.Notifier {
	return publisher.NotifierFunc(func(msg string, _ time.Duration) {
		fmt.Fprintln(w, msg)
	})
}

// reportError prints the guidance for err, and the raw detail when it adds
// something.
func reportError(w io.Writer, err error) {
	short, detail := publisher.Describe(err)
	fmt.Fprintln(w, "Error:", short)
	if detail != "" && detail != short {
		fmt.Fprintln(w, "Detail:", detail)
	}
}

func printOutcome(w io.Writer, out publisher.Outcome) {
	fmt.Fprintf(w, "%s: post %s (%s)\n", out.Op, out.Result.ID, out.Result.Status)
	if out.Result.URL != "" {
		fmt.Fprintln(w, out.Result.URL)
	}
}
