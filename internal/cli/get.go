package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	getJSON    bool
	getTimeout time.Duration
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch one document with its full structure",
	Long: `Get resolves a catalog item by id and prints its parts, chapters and
articles. Local ids come from search results; "live_<number>" ids are
re-fetched from the upstream source, with the curated catalog standing
in when the fetched content fails the completeness gate.

Example:
  mevra get 42
  mevra get live_4857
  mevra get live_6698 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the document as JSON")
	getCmd.Flags().DurationVar(&getTimeout, "timeout", time.Minute, "overall request timeout")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), getTimeout)
	defer cancel()

	cfg := loadConfig()
	coord, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	item, err := coord.GetDetail(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get failed: %w", err)
	}

	if getJSON {
		return printJSON(item)
	}

	fmt.Println(item.Title)
	if item.Number != "" {
		fmt.Printf("Numara: %s\n", item.Number)
	}
	if item.OriginURL != "" {
		fmt.Printf("Kaynak: %s (%s)\n", item.OriginURL, item.Origin)
	}
	fmt.Println()

	for _, section := range item.Sections {
		switch {
		case section.Title != "":
			fmt.Println(section.Title)
		default:
			fmt.Println(strings.ToUpper(string(section.Kind)))
		}
		for _, paragraph := range section.Paragraphs {
			fmt.Printf("  %s\n", paragraph)
		}
		fmt.Println()
	}
	return nil
}
