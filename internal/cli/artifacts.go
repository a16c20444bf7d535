package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	artifactsJSON    bool
	artifactsTimeout time.Duration
)

// artifactsCmd represents the artifacts command
var artifactsCmd = &cobra.Command{
	Use:   "artifacts <id>",
	Short: "Locate downloadable renditions of a document",
	Long: `Artifacts runs the discovery cascade for one catalog item: the item's
own URL, identifier-pattern construction, a scan of the landing page,
and a generic link sweep. Candidates are probed and ranked, verified
ones first.

Example:
  mevra artifacts 42
  mevra artifacts live_4857 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runArtifacts,
}

func init() {
	rootCmd.AddCommand(artifactsCmd)

	artifactsCmd.Flags().BoolVar(&artifactsJSON, "json", false, "print candidates as JSON")
	artifactsCmd.Flags().DurationVar(&artifactsTimeout, "timeout", 2*time.Minute, "overall request timeout")
}

func runArtifacts(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), artifactsTimeout)
	defer cancel()

	cfg := loadConfig()
	coord, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	candidates, err := coord.FindArtifacts(ctx, args[0])
	if err != nil {
		return fmt.Errorf("artifact discovery failed: %w", err)
	}

	if artifactsJSON {
		return printJSON(candidates)
	}

	if len(candidates) == 0 {
		fmt.Println("No downloadable rendition found.")
		return nil
	}

	for _, c := range candidates {
		status := " "
		if c.Verified {
			status = "✓"
		}
		fmt.Printf("  %s %-8s %-18s %s\n", status, c.Confidence, c.Strategy, c.URL)
	}
	return nil
}
