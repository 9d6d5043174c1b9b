package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/akinus/organize/pkg/docs"
	"github.com/akinus/organize/pkg/scanner"
)

var summarizeForce bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Refresh directory summaries without moving any files",
	Long: `Walks the workspace and regenerates the cached description of each
directory whose contents changed since the last run. Summaries feed
both the README files and the embedding that retrieval runs against.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		log := a.logger().With().Str("component", "summarize").Logger()

		gen := docs.NewGenerator(a.provider)
		cache := docs.NewCache(a.logger())

		directories, err := scanner.Scan(cmd.Context(), a.root, scanner.Options{
			Ignore:   scanner.NewIgnoreRules(a.settings.Scan.Ignore),
			MaxDepth: a.settings.Scan.MaxDepth,
			Logger:   a.logger(),
		})
		if err != nil {
			return fmt.Errorf("failed to scan workspace: %w", err)
		}

		refreshed := 0
		for _, dir := range directories {
			if dir.Path == a.root || filepath.Base(dir.Path) == ".ai" {
				continue
			}
			if summarizeForce {
				if err := cache.Invalidate(dir.Path); err != nil {
					log.Warn().Err(err).Str("dir", dir.Path).Msg("Failed to drop cached summary")
				}
			}
			summary, ok := cache.GetOrRefresh(cmd.Context(), dir.Path, gen.Summarizer())
			if !ok {
				log.Warn().Str("dir", dir.Path).Msg("Summary unavailable")
				continue
			}
			if err := docs.UpdateDescription(dir.Path, summary); err != nil {
				log.Warn().Err(err).Str("dir", dir.Path).Msg("Failed to update README")
				continue
			}
			refreshed++
		}

		fmt.Printf("Summaries up to date for %d directories.\n", refreshed)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeForce, "force", false, "regenerate summaries even when contents are unchanged")
	rootCmd.AddCommand(summarizeCmd)
}
