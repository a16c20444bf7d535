package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTimeout     time.Duration
	batchKind        string
	batchPerPage     int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run many queries from a file in parallel",
	Long: `Batch reads queries from a file (one per line, # comments skipped,
duplicates dropped) and runs them concurrently through the hybrid
search, writing one JSON result page per query.

Example:
  mevra batch queries.txt
  mevra batch queries.txt --concurrency 8 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./mevra-results", "output directory for result pages")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&batchKind, "kind", "", "filter by kind (statute, article)")
	batchCmd.Flags().IntVar(&batchPerPage, "per-page", 10, "results per query")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	coord, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	if err := os.MkdirAll(batchOutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(coord, concurrency, batchPerPage)
	filters := model.Filters{Kind: model.Kind(batchKind)}

	results, err := processor.ProcessFile(ctx, file, filters)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, result.Error)
			continue
		}
		successCount++

		path := filepath.Join(batchOutputDir, querySlug(result.Query)+".json")
		if err := writeResultPage(path, result.Page); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Query, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d results)\n", result.Query, result.Page.TotalCount)
	}

	fmt.Fprintf(os.Stderr, "\nDone: %d queries, %d ok, %d failed, output in %s\n",
		len(results), successCount, failureCount, batchOutputDir)
	return nil
}

func writeResultPage(path string, page *model.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal page: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// querySlug turns a query into a safe file name.
func querySlug(query string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(query) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'ç', r == 'ğ', r == 'ı', r == 'ö', r == 'ş', r == 'ü', r == 'i':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > 80 {
		slug = slug[:80]
	}
	if slug == "" {
		slug = "query"
	}
	return slug
}
