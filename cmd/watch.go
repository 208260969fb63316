// cmd/watch.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Bitlatte/quill/internal/config"
	"github.com/Bitlatte/quill/internal/logging"
)

const watchDebounce = 500 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Builds the journal and rebuilds whenever an entry changes",
	Long: `The watch command performs an initial build, then watches the source
directory and rebuilds after markdown files are written, created, removed or
renamed. The publish cache is kept between rebuilds so only changed entries
are rendered again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := appConfig
		cfg.KeepCache = true
		return watch(ctx, cfg, appLogger)
	},
}

// rebuilder serialises builds triggered by file events.
type rebuilder struct {
	mu  sync.Mutex
	cfg config.Config
	log logging.Logger
}

func (r *rebuilder) rebuild(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	r.log.Info("rebuilding after changes")
	if _, err := runBuildProcess(ctx, r.cfg, r.log); err != nil {
		r.log.Error("rebuild failed", "error", err)
		return
	}
	r.log.Info("rebuild finished")
}

func watch(ctx context.Context, cfg config.Config, log logging.Logger) error {
	log.Info("performing initial build")
	if _, err := runBuildProcess(ctx, cfg, log); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.SourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.SourceDir, err)
	}
	log.Info("watching for changes", "source", cfg.SourceDir)

	r := &rebuilder{cfg: cfg, log: log}
	var buildTimer *time.Timer
	defer func() {
		if buildTimer != nil {
			buildTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debug("change detected", "file", event.Name, "op", event.Op.String())

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(watchDebounce, func() { r.rebuild(ctx) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// relevant reports whether event touches a markdown source.
func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".md") {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if event.Has(fsnotify.Create) && isDir(event.Name) {
			return false
		}
		return true
	}
	return false
}

// Helper function to check if a path is a directory
func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
