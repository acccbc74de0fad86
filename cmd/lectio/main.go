// Package main provides the offline CLI for inspecting and maintaining the
// reading state stored by the engine.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/app"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/config"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lectio",
		Short:         "Inspect and maintain Bible reading progress",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newPlansCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

// withApp builds the application from the environment, starts it for the
// duration of fn and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.Start(ctx)
	return fn(ctx, a)
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List reading plans and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				state, err := a.Tracker.Snapshot(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tDAYS\tDONE\tPROGRESS")
				for _, p := range state.Plans {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d%%\n", p.ID, p.Name, p.DurationDays, p.CompletedTasks(), len(p.Tasks), p.Progress)
				}
				return w.Flush()
			})
		},
	}
}

func newPlanCmd() *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "plan <id>",
		Short: "Show the tasks of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				state, err := a.Tracker.Snapshot(ctx)
				if err != nil {
					return err
				}
				plan, ok := state.Plan(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", domain.ErrPlanNotFound, args[0])
				}
				return printPlan(cmd, plan, day)
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "only show this day (1-based)")
	return cmd
}

func printPlan(cmd *cobra.Command, plan domain.ReadingPlan, day int) error {
	out := cmd.OutOrStdout()

	if day != 0 && (day < 1 || day > plan.DurationDays) {
		return fmt.Errorf("day must be between 1 and %d", plan.DurationDays)
	}

	fmt.Fprintf(out, "%s (%d%%)\n", plan.Name, plan.Progress)

	first, last := 1, plan.DurationDays
	if day != 0 {
		first, last = day, day
	}
	for d := first; d <= last; d++ {
		tasks := plan.TasksForDay(d)
		if len(tasks) == 0 {
			continue
		}
		fmt.Fprintf(out, "Dia %d\n", d)
		for _, t := range tasks {
			mark := " "
			if t.IsCompleted {
				mark = "x"
			}
			fmt.Fprintf(out, "  [%s] %s %d  %s\n", mark, t.Book, t.Chapter, t.ID)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of plans and stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				state, err := a.Tracker.Snapshot(ctx)
				if err != nil {
					return err
				}

				now := time.Now()
				data, err := services.MarshalExport(services.BuildExport(state, now))
				if err != nil {
					return err
				}

				if out == "-" {
					_, err := cmd.OutOrStdout().Write(append(data, '\n'))
					return err
				}

				path := out
				if path == "" {
					path = services.ExportFileName(now)
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file, - for stdout (default lectio-backup-<date>.json)")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached chapter text",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached chapter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				removed, err := a.Cache.Clear(ctx)
				if err != nil {
					return fmt.Errorf("cleared %d entries before failing: %w", removed, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached chapters\n", removed)
				return nil
			})
		},
	})

	return cacheCmd
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard all progress and custom plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				defaults, err := a.Sync.Defaults()
				if err != nil {
					return err
				}
				if _, err := a.Tracker.Reset(ctx, defaults); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Progress reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
