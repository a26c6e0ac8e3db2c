// Command fittrack-cli manages the exercise catalog and daily routine from the
// terminal. Every command loads the configured store, runs, and saves back
// when it changed something.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/fittrack/internal/config"
	"github.com/claude/fittrack/internal/logging"
	"github.com/claude/fittrack/internal/storage"
	"github.com/claude/fittrack/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root has run.
type app struct {
	configPath string
	cfg        *config.Config
	log        *slog.Logger
	logCloser  io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "fittrack-cli",
		Short:        "Manage the FitTrack exercise catalog and daily routine",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to config file (optional)")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.seedCmd(),
		a.snapshotsCmd(),
		a.routineCmd(),
		a.mcpCmd(),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, closer, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.cfg, a.log, a.logCloser = cfg, log, closer
	return nil
}

// withTracker loads the catalog from the configured store into a fresh
// tracker, runs fn, and saves the catalog back when save is set and fn succeeded.
func (a *app) withTracker(ctx context.Context, save bool, fn func(*workout.Tracker) error) error {
	store, err := storage.Open(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	tracker := workout.NewTracker(nil)
	res := tracker.Replace(entries)
	for _, e := range res.Errors() {
		a.log.Warn("skipped stored exercise", "error", e)
	}

	if err := fn(tracker); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := store.Save(ctx, tracker.Snapshot()); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	a.log.Debug("catalog saved", "exercises", tracker.Stats().Exercises)
	return nil
}
