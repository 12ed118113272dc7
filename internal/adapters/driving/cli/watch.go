package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semantica/internal/adapters/driven/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch file-backed sources and re-extract on change",
	Long: `Watches the files behind registered sources and runs extraction when
one is written. A new source version is recorded only when the content
hash changed. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := watch.NewSourceWatcher(sourceService)
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Stop()

	cmd.Println("Watching sources. Press Ctrl+C to stop.")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals

	cancel()
	return nil
}
