package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/fittrack/internal/workout"
)

func (a *app) routineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routine NAME...",
		Short: "Queue exercises and work through them in order",
		Long: `Queue the named exercises as today's routine, then offer each one in turn.
Answer y when it is done to move on; any other answer stops the routine.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTracker(cmd.Context(), false, func(t *workout.Tracker) error {
				for _, name := range args {
					if _, err := t.Enqueue(name); err != nil {
						return notFound(t, name, err)
					}
				}
				return stepThrough(cmd, t)
			})
		},
	}
}

// stepThrough offers each queued exercise and completes it on confirmation.
func stepThrough(cmd *cobra.Command, t *workout.Tracker) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	total := t.Stats().Routine

	for i := 1; ; i++ {
		next, err := t.Next()
		if err != nil {
			fmt.Fprintln(out, "Routine complete.")
			return nil
		}
		fmt.Fprintf(out, "[%d/%d] %s: %dx%d (%s min). Done? [y/N] ",
			i, total, next.Name, next.Sets, next.Reps, formatMinutes(next.Duration))

		if !in.Scan() || !isYes(in.Text()) {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Stopped with %d exercises left.\n", t.Stats().Routine)
			return in.Err()
		}
		if _, err := t.CompleteNext(); err != nil {
			return err
		}
	}
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
