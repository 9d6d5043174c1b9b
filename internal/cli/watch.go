package cli

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/akinus/organize/pkg/scanner"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the workspace and organize new files automatically",
	Long: `Runs continuously: filesystem events trigger a fresh organization
pass over the workspace, and trash cleanup runs on a daily schedule.
Only memory-backed high-confidence moves happen in watch mode; files
the organizer is unsure about are left in place for the next
interactive run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		return runWatch(cmd, a)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, a *app) error {
	log := a.logger().With().Str("component", "organize-watch").Logger()
	ctx := cmd.Context()

	var runMu sync.Mutex
	pass := func() {
		runMu.Lock()
		defer runMu.Unlock()
		if err := runOrganize(ctx, a, false); err != nil {
			log.Warn().Err(err).Msg("Watch pass failed")
		}
	}

	watcher, err := scanner.NewWatcher(a.logger(), pass)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	if err := watcher.Watch(a.root); err != nil {
		return fmt.Errorf("failed to watch workspace: %w", err)
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := a.bin.Cleanup(a.settings.Trash.RetentionDays); err != nil {
			log.Warn().Err(err).Msg("Scheduled trash cleanup failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule trash cleanup: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info().Str("root", a.root).Msg("Watching workspace")
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", a.root)

	// Initial pass picks up whatever accumulated before the watch.
	pass()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	log.Info().Msg("Watch stopped")
	return nil
}
