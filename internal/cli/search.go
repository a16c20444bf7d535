package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodhane/mevra/internal/model"
)

var (
	searchKind    string
	searchPage    int
	searchPerPage int
	searchJSON    bool
	searchTimeout time.Duration
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search statutes and articles across local and live sources",
	Long: `Search runs one hybrid query: the local document store and the live
legislation source are consulted in parallel and the results merged
into a single page. Live failures shrink the result set; they never
fail the search.

Example:
  mevra search "iş kanunu"
  mevra search "kişisel verilerin korunması" --kind statute
  mevra search "6698" --page 2 --per-page 5 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchKind, "kind", "", "filter by kind (statute, article)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchPerPage, "per-page", 10, "results per page")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the page as JSON")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", time.Minute, "overall request timeout")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	cfg := loadConfig()
	coord, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	filters := model.Filters{Kind: model.Kind(searchKind)}
	page, err := coord.Search(ctx, args[0], filters, searchPage, searchPerPage)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(page)
	}

	if len(page.Items) == 0 {
		fmt.Println("No results.")
		return nil
	}

	fmt.Printf("Page %d (%d total)\n\n", page.Page, page.TotalCount)
	for _, item := range page.Items {
		number := item.Number
		if number == "" {
			number = "-"
		}
		fmt.Printf("  %-12s %-8s %-8s %s\n", item.ID, number, item.Origin, item.Title)
		if verbose && item.PreviewText != "" {
			fmt.Printf("               %s\n", item.PreviewText)
		}
	}
	if page.HasNext {
		fmt.Printf("\nMore results: --page %d\n", page.Page+1)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
