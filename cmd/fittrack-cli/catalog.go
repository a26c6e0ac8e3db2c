package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/claude/fittrack/internal/exercise"
	"github.com/claude/fittrack/internal/storage"
	"github.com/claude/fittrack/internal/workout"
)

func (a *app) listCmd() *cobra.Command {
	var opts workout.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exercises, optionally filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), false, func(t *workout.Tracker) error {
				list, err := t.List(opts)
				if err != nil {
					return err
				}
				renderTable(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.SortKey, "sort", "", "sort by field: "+strings.Join(exercise.Keys, ", "))
	cmd.Flags().StringVar(&opts.Category, "category", "", "only exercises in this category")
	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive name substring")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), false, func(t *workout.Tracker) error {
				rec, err := t.Get(args[0])
				if err != nil {
					return notFound(t, args[0], err)
				}
				renderDetail(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}
}

// recordFlags registers one flag per record field. The name flag is
// registered by the caller since add and edit use it differently.
type recordFlags struct {
	name        string
	muscleGroup string
	sets        int
	reps        int
	duration    float64
	difficulty  int
	category    string
}

func (f *recordFlags) register(fs *pflag.FlagSet, prefix string) {
	usage := func(s string) string { return strings.TrimSpace(prefix + " " + s) }
	fs.StringVar(&f.muscleGroup, "muscle-group", exercise.DefaultGroup, usage("muscle group"))
	fs.IntVar(&f.sets, "sets", 1, usage("number of sets"))
	fs.IntVar(&f.reps, "reps", 1, usage("repetitions per set"))
	fs.Float64Var(&f.duration, "duration", 0, usage("duration in minutes"))
	fs.IntVar(&f.difficulty, "difficulty", 1, usage("difficulty from 1 to 10"))
	fs.StringVar(&f.category, "category", exercise.DefaultGroup, usage("category"))
}

// changed returns the fields whose flags were set on the command line.
func (f *recordFlags) changed(fs *pflag.FlagSet) exercise.Fields {
	out := exercise.Fields{}
	set := func(flag, key string, v any) {
		if fs.Changed(flag) {
			out[key] = v
		}
	}
	set("name", exercise.FieldName, f.name)
	set("muscle-group", exercise.FieldMuscleGroup, f.muscleGroup)
	set("sets", exercise.FieldSets, f.sets)
	set("reps", exercise.FieldReps, f.reps)
	set("duration", exercise.FieldDuration, f.duration)
	set("difficulty", exercise.FieldDifficulty, f.difficulty)
	set("category", exercise.FieldCategory, f.category)
	return out
}

func (a *app) addCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "add --name NAME [flags]",
		Short: "Add an exercise to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := exercise.ParseRecord(f.changed(cmd.Flags()))
			if err != nil {
				return err
			}
			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				added, err := t.Add(rec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s.\n", added.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "exercise name")
	f.register(cmd.Flags(), "")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var f recordFlags
	cmd := &cobra.Command{
		Use:   "edit NAME [flags]",
		Short: "Overwrite fields of an existing exercise",
		Long: `Overwrite the given fields of an existing exercise. Fields without a
flag are left unchanged. Values are stored as given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := exercise.ParseUpdate(f.changed(cmd.Flags()))
			if err != nil {
				return err
			}
			if u.IsEmpty() {
				return fmt.Errorf("%w: nothing to change, pass at least one field flag", exercise.ErrInvalidArgument)
			}
			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				rec, err := t.Edit(args[0], u)
				if err != nil {
					return notFound(t, args[0], err)
				}
				renderDetail(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.name, "name", "", "new exercise name")
	f.register(cmd.Flags(), "new")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove an exercise from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				rec, err := t.Delete(args[0])
				if err != nil {
					return notFound(t, args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", rec.Name)
				return nil
			})
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge exercises from a JSON file into the catalog",
		Long: `Merge exercises from a JSON array of records into the catalog.
Entries that are invalid or whose name already exists are skipped and reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			entries, err := storage.DecodeRecords(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				res := t.Import(entries)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d of %d exercises.\n", res.Loaded, res.Received)
				for _, e := range res.Errors() {
					fmt.Fprintln(out, dimStyle.Render("  skipped "+e.Error()))
				}
				return nil
			})
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the catalog to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), false, func(t *workout.Tracker) error {
				records := t.Snapshot()
				if err := storage.NewJSONFile(args[0]).Save(cmd.Context(), records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d exercises to %s.\n", len(records), args[0])
				return nil
			})
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the starter exercises that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), true, func(t *workout.Tracker) error {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d starter exercises.\n", t.Seed())
				return nil
			})
		},
	}
}

func (a *app) snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List saved catalog snapshots (sqlite and postgres storage)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := storage.Open(ctx, a.cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			lister, ok := store.(storage.SnapshotLister)
			if !ok {
				return fmt.Errorf("storage driver %q keeps no snapshots", a.cfg.Storage.Driver)
			}
			snaps, err := lister.Snapshots(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range snaps {
				fmt.Fprintf(out, "%s  %s  %d exercises\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Count)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(out, dimStyle.Render("(no snapshots)"))
			}
			return nil
		},
	}
}

// notFound adds close-match suggestions to a lookup miss.
func notFound(t *workout.Tracker, name string, err error) error {
	if !errors.Is(err, workout.ErrNotFound) {
		return err
	}
	if s := t.Suggest(name, 3); len(s) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
	}
	return err
}
