// Command faqdedupe removes FAQ entries whose question repeats an earlier one.
//
// It runs the same sweep as POST /api/faq/dedupe and prints the result as JSON:
//
//	faqdedupe --mongo_uri mongodb://localhost:27017 --mongo_database cleansite
//
// Flags fall back to CLEANSITE_MONGO_URI and CLEANSITE_MONGO_DATABASE.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	faqstore "github.com/dalemusser/cleansite/internal/app/store/faq"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	URI      string
	Database string
	Timeout  time.Duration
	Verbose  bool
}

// sweepFunc performs the sweep. Tests replace it.
type sweepFunc func(ctx context.Context, o options, logger *zap.Logger) (faqstore.DedupeResult, error)

func main() {
	if err := newRootCmd(sweep, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(run sweepFunc, out io.Writer) *cobra.Command {
	o := options{
		URI:      envOr("CLEANSITE_MONGO_URI", "mongodb://localhost:27017"),
		Database: envOr("CLEANSITE_MONGO_DATABASE", "cleansite"),
		Timeout:  time.Minute,
	}

	cmd := &cobra.Command{
		Use:   "faqdedupe",
		Short: "Remove duplicate FAQ questions",
		Long: `Remove FAQ entries whose question (case and surrounding space ignored)
repeats an earlier entry. The earliest entry of each question is kept.
Running it again on a clean collection removes nothing.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if o.Verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				logger = l
				defer func() { _ = logger.Sync() }()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
			defer cancel()

			res, err := run(ctx, o, logger)
			if err != nil {
				return fmt.Errorf("dedupe: %w", err)
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.URI, "mongo_uri", o.URI, "MongoDB connection URI")
	f.StringVar(&o.Database, "mongo_database", o.Database, "MongoDB database name")
	f.DurationVar(&o.Timeout, "timeout", o.Timeout, "overall time limit for the sweep")
	f.BoolVarP(&o.Verbose, "verbose", "v", false, "log connection details to stderr")
	return cmd
}

func sweep(ctx context.Context, o options, logger *zap.Logger) (faqstore.DedupeResult, error) {
	cfg := mongoconn.DefaultConfig()
	cfg.URI = o.URI
	cfg.Database = o.Database
	conn := mongoconn.New(cfg, logger)
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			logger.Warn("disconnect failed", zap.Error(err))
		}
	}()

	return faqstore.New(conn).Dedupe(ctx)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
