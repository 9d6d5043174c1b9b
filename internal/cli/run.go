package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akinus/organize/pkg/docs"
	"github.com/akinus/organize/pkg/memory"
	"github.com/akinus/organize/pkg/organizer"
	"github.com/akinus/organize/pkg/scanner"
)

var noAutoMove bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Organize the workspace once",
	Long: `Scans the workspace, suggests a destination folder for every loose
file, and moves files either automatically (at high confidence with
memory backing) or after an interactive prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return runOrganize(cmd.Context(), a, true)
	},
}

func init() {
	runCmd.Flags().BoolVar(&noAutoMove, "no-auto", false, "disable automatic moves for this run")
	rootCmd.AddCommand(runCmd)
}

// internalNames are never organized.
var internalNames = map[string]bool{
	docs.SidecarName: true,
	docs.ReadmeName:  true,
	"project.db":     true,
}

// runOrganize performs one organization pass. In non-interactive mode
// (watch) files that would need a prompt are left in place.
func runOrganize(ctx context.Context, a *app, interactive bool) error {
	log := a.logger().With().Str("component", "organize-run").Logger()
	log.Info().Str("root", a.root).Msg("Starting organization run")

	if err := a.bin.Cleanup(a.settings.Trash.RetentionDays); err != nil {
		log.Warn().Err(err).Msg("Trash cleanup failed")
	}

	directories, err := scanner.Scan(ctx, a.root, a.scanOptions())
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}

	autoEnabled := a.settings.Behavior.AutoMoveEnabled && !noAutoMove

	// Destination candidates are the workspace's top-level folders,
	// carrying whatever summaries the scan attached.
	var destinations []scanner.DirectoryContext
	for _, dir := range directories {
		if filepath.Dir(dir.Path) == a.root && filepath.Base(dir.Path) != ".ai" {
			destinations = append(destinations, dir)
		}
	}

	for _, dir := range directories {
		if filepath.Base(dir.Path) == ".ai" {
			continue
		}
		for _, name := range dir.Files {
			if internalNames[name] {
				continue
			}
			path := filepath.Join(dir.Path, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}

			if err := a.processFile(ctx, path, dir, destinations, autoEnabled, interactive); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				log.Warn().Err(err).Str("file", name).Msg("Failed to process file")
			}
		}
	}

	log.Info().Msg("Organization run complete")
	if interactive {
		fmt.Println("Organization complete.")
		fmt.Printf("Detailed log for this run: %s (run_id %s)\n", a.settings.Logging.File, a.log.RunID())
	}
	return nil
}

func (a *app) processFile(ctx context.Context, path string, dir scanner.DirectoryContext, destinations []scanner.DirectoryContext, autoEnabled, interactive bool) error {
	log := a.logger().With().Str("component", "organize-run").Str("file", filepath.Base(path)).Logger()

	fileCtx, err := scanner.BuildFileContext(path)
	if err != nil {
		return err
	}

	result, err := a.engine.Suggest(ctx, fileCtx, destinations)
	if err != nil {
		return err
	}

	if len(result.Suggestions) == 0 {
		log.Info().Msg("No suggestions, skipping")
		if interactive {
			fmt.Printf("No suggestions for %q. Skipping.\n", fileCtx.Name)
		}
		return nil
	}

	best := result.Suggestions[0]
	log.Info().
		Str("top_choice", best.Folder).
		Float64("confidence", best.Confidence).
		Strs("sources", best.Sources).
		Bool("auto_move_eligible", best.AutoMoveEligible).
		Msg("Suggestions ranked")

	if autoEnabled && best.AutoMoveEligible && a.folderExists(best.Folder) {
		if err := a.moveFile(path, best.Folder); err != nil {
			return err
		}
		fmt.Printf("Auto-moved %q to %q (confidence: %.3f)\n", fileCtx.Name, best.Folder, best.Confidence)
		log.Info().Str("destination", best.Folder).Msg("Auto-move")
		a.remember(ctx, result, fileCtx, dir, best.Folder, best.Confidence, false)
		return nil
	}

	if !interactive {
		log.Debug().Msg("Not auto-move eligible, leaving for an interactive run")
		return nil
	}

	return a.promptAndApply(ctx, path, fileCtx, dir, result)
}

// promptAndApply runs the interactive path for one file.
func (a *app) promptAndApply(ctx context.Context, path string, fileCtx scanner.FileContext, dir scanner.DirectoryContext, result organizer.Result) error {
	log := a.logger().With().Str("component", "organize-run").Str("file", fileCtx.Name).Logger()

	choice, err := promptDestination(fileCtx.Name, result.Suggestions)
	if err != nil {
		return err
	}

	switch choice {
	case choiceSkip:
		log.Info().Msg("Skipped by user")
		return nil

	case choiceDelete:
		if protectedName(fileCtx.Name) {
			log.Warn().Msg("Refusing to trash a protected file")
			return nil
		}
		confirmed, err := confirmTrash(fileCtx.Name)
		if err != nil || !confirmed {
			return err
		}
		trashed, err := a.bin.Discard(path)
		if err != nil {
			return err
		}
		fmt.Printf("Moved %q to trash: %s\n", fileCtx.Name, trashed)
		return nil

	case choiceOther, choiceNew:
		title := "Enter exact folder name"
		if choice == choiceNew {
			title = "Enter new folder name"
		}
		folder, err := promptFolderName(title)
		if err != nil {
			return err
		}
		if folder == "" {
			return nil
		}
		if err := a.moveFile(path, folder); err != nil {
			return err
		}
		log.Info().Str("destination", folder).Msg("Manual move")
		// User-created destinations are remembered at medium confidence.
		a.remember(ctx, result, fileCtx, dir, folder, 0.5, true)
		return nil

	default:
		// A ranked suggestion was chosen.
		var selected organizer.Suggestion
		for _, s := range result.Suggestions {
			if s.Folder == choice {
				selected = s
				break
			}
		}
		if err := a.moveFile(path, selected.Folder); err != nil {
			return err
		}
		log.Info().Str("destination", selected.Folder).Float64("confidence", selected.Confidence).Msg("User-selected move")
		a.remember(ctx, result, fileCtx, dir, selected.Folder, selected.Confidence, true)
		return nil
	}
}

// remember records the decision, if an embedding is available. The
// interactive path may promote medium-confidence decisions to global
// memory after asking.
func (a *app) remember(ctx context.Context, result organizer.Result, fileCtx scanner.FileContext, dir scanner.DirectoryContext, folder string, confidence float64, interactive bool) {
	if result.Embedding == nil {
		return
	}

	var askGlobal memory.AskGlobalFunc
	if interactive {
		askGlobal = func(summary memory.DecisionSummary) bool {
			ok, err := confirmGlobalSave(summary.TargetFolder)
			if err != nil {
				return false
			}
			return ok
		}
	}

	err := a.store.RecordDecision(ctx, memory.Decision{
		Embedding:            result.Embedding,
		Extension:            fileCtx.Extension,
		Tokens:               result.Tokens,
		TargetFolder:         folder,
		DirectoryDescription: dir.Description,
		Confidence:           confidence,
	}, askGlobal)
	if err != nil {
		log := a.logger()
		log.Warn().Err(err).Str("file", fileCtx.Name).Msg("Failed to record decision")
	}
}

func (a *app) folderExists(folder string) bool {
	info, err := os.Stat(filepath.Join(a.root, folder))
	return err == nil && info.IsDir()
}

// moveFile moves a file into a workspace folder, creating it if
// needed. Moving a file onto its own directory is a no-op.
func (a *app) moveFile(path, folder string) error {
	dest := filepath.Join(a.root, folder)
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("failed to create destination folder: %w", err)
	}
	if filepath.Dir(path) == dest {
		return nil
	}
	if err := os.Rename(path, filepath.Join(dest, filepath.Base(path))); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}

// protectedName guards files that should never be trashed from the
// organizer prompt.
func protectedName(name string) bool {
	switch strings.ToLower(name) {
	case "readme.md", "license", ".gitignore":
		return true
	}
	return false
}
