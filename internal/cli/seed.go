package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodhane/mevra/internal/fallback"
	"github.com/kodhane/mevra/internal/store"
)

var seedTimeout time.Duration

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the curated documents into the local store",
	Long: `Seed inserts the built-in curated statutes into the local SQLite
store so searches return local results before any live fetch. Already
present numbers are skipped.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().DurationVar(&seedTimeout, "timeout", time.Minute, "seeding timeout")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	cfg := loadConfig()
	localStore, err := store.NewSQLiteStore(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer localStore.Close()

	catalog := fallback.NewCatalog()
	inserted := 0
	for _, number := range catalog.Numbers() {
		item, _ := catalog.Lookup(number)

		existing, err := localStore.FindByNumber(ctx, number)
		if err != nil {
			return fmt.Errorf("check %s: %w", number, err)
		}
		if existing != nil {
			fmt.Fprintf(os.Stderr, "- %s already present, skipped\n", item.Title)
			continue
		}

		if item.PreviewText == "" && len(item.Sections) > 0 && len(item.Sections[0].Paragraphs) > 0 {
			item.PreviewText = item.Sections[0].Paragraphs[0]
		}
		if _, err := localStore.Insert(ctx, item); err != nil {
			return fmt.Errorf("insert %s: %w", number, err)
		}
		inserted++
		fmt.Fprintf(os.Stderr, "✓ %s (%s)\n", item.Title, number)
	}

	fmt.Fprintf(os.Stderr, "\nSeeded %d documents into %s\n", inserted, cfg.Store.SQLitePath)
	return nil
}
