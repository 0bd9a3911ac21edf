package cli

import (
	"context"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/spf13/cobra"
)

func newClockInCmd(a *App, opts *rootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "in",
		Short: "Clock in and start a work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.track(cmd, opts, domain.EventClockIn, func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error) {
				return a.Tracking.ClockIn(ctx, actor, notes)
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the session")
	return cmd
}

func newClockOutCmd(a *App, opts *rootOptions) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "Clock out and end the work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.track(cmd, opts, domain.EventClockOut, func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error) {
				return a.Tracking.ClockOut(ctx, actor, notes)
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes appended to the session")
	return cmd
}

func newBreakCmd(a *App, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Start or end a break",
	}

	start := &cobra.Command{
		Use:       "start [coffee|rest|lunch]",
		Short:     "Start a break",
		Long:      "Start a break. Without a type, a picker is shown when running in a terminal.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.BreakCoffee), string(domain.BreakRest), string(domain.BreakLunch)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.track(cmd, opts, domain.EventStartBreak, func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error) {
				bt, err := a.pickBreakType(ctx, actor, args)
				if err != nil {
					return nil, err
				}
				return a.Tracking.StartBreak(ctx, actor, bt)
			})
		},
	}

	resume := &cobra.Command{
		Use:   "resume",
		Short: "End the current break and resume work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.track(cmd, opts, domain.EventResume, func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error) {
				return a.Tracking.ResumeWork(ctx, actor)
			})
		},
	}

	cmd.AddCommand(start, resume)
	return cmd
}

func newStatusCmd(a *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session, breaks and compliance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.track(cmd, opts, "", func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error) {
				return a.Tracking.Snapshot(ctx, actor)
			})
		},
	}
}

// track runs one tracking use case and prints the resulting snapshot. A
// non-empty event prefixes the status box with a confirmation line.
func (a *App) track(cmd *cobra.Command, opts *rootOptions, event domain.Event,
	fn func(ctx context.Context, actor app.Actor) (*app.TrackingSnapshot, error)) error {
	actor, err := opts.actor()
	if err != nil {
		return err
	}

	snap, err := fn(cmd.Context(), actor)
	if err != nil {
		return err
	}

	return render(cmd, opts, contract.FromSnapshot(snap), func() string {
		out := ""
		if event != "" {
			out = formatter.FormatAction(event, snap, a.location()) + "\n"
		}
		return out + formatter.FormatTracking(snap, a.location())
	})
}
