package commands

import (
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

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/engine"
	"github.com/tabforge-labs/tabforge/internal/task"
)

// watchDebounce is how long the watcher waits for events to settle
// before re-running the pipeline.
const watchDebounce = 100 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Tasks    string
	OutDir   string
	Validate bool
	Password string
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Clean files in a directory as they change",
		Long: `Watch a directory and run the cleaning pipeline on every tabular
file that is created or modified. Cleaned artifacts land in the output
directory; files the pipeline cannot handle are logged and skipped.`,
		Example: `  # Deduplicate every file dropped into incoming/
  tabforge watch --tasks '{"remove_duplicates": true}' incoming/

  # Run a pipeline file, writing results elsewhere
  tabforge watch --tasks pipeline.yaml --out-dir clean/ incoming/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tasks, "tasks", "", "Task document or path to one (required)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", ".", "Directory for produced artifacts")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet outputs with a password")
	_ = cmd.MarkFlagRequired("tasks")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, opts *WatchOptions) error {
	cc := NewCommandContext(cmd)

	set, err := loadTasks(opts.Tasks)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("watch directory does not exist: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", dir)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Debounce state
	var (
		mu      sync.Mutex
		pending = map[string]struct{}{}
		timer   *time.Timer
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := codec.FromFilename(event.Name); err != nil {
				continue
			}
			// Artifacts the watcher itself produced must not feed back in.
			if strings.HasPrefix(filepath.Base(event.Name), "cleaned_") {
				continue
			}

			mu.Lock()
			pending[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				mu.Lock()
				batch := pending
				pending = map[string]struct{}{}
				mu.Unlock()

				for path := range batch {
					cleanOnChange(cc, set, opts, path)
				}
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}

// watchDir recursively adds a directory to the watcher, skipping
// hidden directories.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// cleanOnChange runs the pipeline over one changed file. Failures are
// logged; the watcher keeps running.
func cleanOnChange(cc *CommandContext, set *task.Set, opts *WatchOptions, path string) {
	file, err := readFile(path)
	if err != nil {
		cc.Logger.Error("read failed", "file", path, "error", err)
		return
	}

	artifact, err := cc.Engine.Clean(file, set, engine.Options{
		Validate: opts.Validate,
		Password: opts.Password,
	})
	if err != nil {
		cc.Logger.Error("clean failed", "file", path, "error", err)
		return
	}

	out, err := writeArtifact(artifact, filepath.Join(opts.OutDir, artifact.Name))
	if err != nil {
		cc.Logger.Error("write failed", "file", path, "error", err)
		return
	}
	cc.Logger.Info("cleaned on change", "file", path, "artifact", out)
}
