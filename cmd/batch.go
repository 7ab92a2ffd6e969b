package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/takeoff-cli/internal/extractor"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/provider"
	"github.com/sells-group/takeoff-cli/internal/store"
)

var (
	batchEnhance bool
	batchVocab   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <document>...",
	Short: "Extract takeoff items from multiple documents concurrently",
	Long:  "Processes documents concurrently, persisting each run to the configured store. Arguments may be file paths or glob patterns.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		paths, err := expandPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			zap.L().Info("no documents matched")
			return nil
		}

		svc, enh, err := initService(batchVocab, batchEnhance, nil)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		// Warm the prompt cache once so concurrent documents share it.
		if enh != nil {
			if err := enh.Warm(ctx); err != nil {
				zap.L().Warn("prompt cache primer failed", zap.Error(err))
			}
		}

		return processBatch(ctx, paths, cfg.Batch.MaxConcurrentDocuments, svc, st)
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchEnhance, "enhance", false, "run the Claude enhancement pass on each document")
	batchCmd.Flags().StringVar(&batchVocab, "vocabulary", "", "fixture vocabulary YAML file (default from config)")
	rootCmd.AddCommand(batchCmd)
}

// expandPaths resolves glob patterns, preserving argument order.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "bad pattern %s", arg)
		}
		if len(matches) == 0 {
			// Not a pattern; keep the literal path so the provider
			// reports a useful open error.
			paths = append(paths, arg)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// processBatch extracts each document concurrently and records a run per
// document. Individual failures mark the run failed without aborting
// the batch.
func processBatch(ctx context.Context, paths []string, concurrency int, svc *extractor.Service, st store.Store) error {
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("document", path))

			run, err := st.CreateRun(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Error("create run failed", zap.Error(err))
				return nil
			}
			if err := st.UpdateRunStatus(gctx, run.ID, model.RunRunning); err != nil {
				log.Warn("update run status failed", zap.Error(err))
			}

			prov, err := provider.ForPath(path, cfg.Extract.PdfToTextPath)
			if err == nil {
				var result *model.ExtractionResult
				result, err = svc.Extract(gctx, prov)
				if err == nil {
					if err = st.UpdateRunResult(gctx, run.ID, result); err == nil {
						succeeded.Add(1)
						log.Info("document complete",
							zap.String("run_id", run.ID),
							zap.Int("items", result.Summary.TotalItems),
						)
						return nil
					}
				}
			}

			failed.Add(1)
			log.Error("document failed", zap.Error(err))
			if mErr := st.MarkRunFailed(gctx, run.ID, err.Error()); mErr != nil {
				log.Warn("mark run failed errored", zap.Error(mErr))
			}
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
