package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/ppiankov/avatartag/internal/cache"
	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/ppiankov/avatartag/internal/pipeline"
	"github.com/ppiankov/avatartag/internal/worker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	batchVocab   string
	concurrency  int
	batchJSON    bool
	noCache      bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Classify many descriptions from a file in parallel",
	Long: `Batch classifies descriptions concurrently:
- Read descriptions from input file (one per line, # comments skipped)
- Classify lines in parallel with configurable worker count
- Repeated descriptions are served from an in-memory cache
- Results are printed in input order

Example:
  avatartag batch descriptions.txt --vocab body
  avatartag batch hair.txt --vocab hair --concurrency 8 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchVocab, "vocab", "body", "vocabulary to classify against")
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print results as JSON")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the classification cache")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Batch.Workers = concurrency
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	vocab, err := cfg.Vocabulary(batchVocab)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	var memo cache.Cache
	if cfg.Cache.Enabled {
		memo = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	logger.WithFields(logrus.Fields{
		"file":       file,
		"vocabulary": vocab.Name(),
		"workers":    cfg.Batch.Workers,
		"cache":      cfg.Cache.Enabled,
	}).Debug("starting batch")

	processor := worker.NewBatchProcessor(classify.New(vocab, logger), memo, cfg.Cache.TTL, cfg.Batch.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	if batchJSON {
		data, err := pipeline.ResultsJSON(results)
		if err != nil {
			return fmt.Errorf("marshal results: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	pipeline.NewRenderer(false).RenderResults(os.Stdout, vocab, results)

	resolved, failed, cached := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Error != nil:
			failed++
		case r.Result.Resolved():
			resolved++
		}
		if r.Cached {
			cached++
		}
	}

	fmt.Fprintf(os.Stderr, "\n  Total: %d  %s  %s  %s  Cached: %d\n",
		len(results),
		color.GreenString("Resolved: %d", resolved),
		color.YellowString("Unresolved: %d", len(results)-resolved-failed),
		color.RedString("Failed: %d", failed),
		cached,
	)

	return nil
}
