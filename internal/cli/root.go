package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/config"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/alexanderramin/shiftclock/internal/metrics"
	"github.com/alexanderramin/shiftclock/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds references to the use cases and settings CLI commands need.
type App struct {
	Tracking    app.TrackingUseCase
	Reports     app.ReportUseCase
	Approvals   app.ApprovalUseCase
	Corrections app.CorrectionUseCase
	Sweep       app.SweepUseCase
	Config      *config.Config

	// Now overrides the clock used by sweep and watch.
	Now func() time.Time

	// IsInteractive reports whether stdin is a terminal. Prompts are only
	// shown when it returns true.
	IsInteractive func() bool
	// PickBreakType and PromptReason override the huh prompts.
	PickBreakType func(ctx context.Context) (domain.BreakType, error)
	PromptReason  func(ctx context.Context) (string, error)

	// UseCaseLog receives the use-case logger; serve swaps in JSON output.
	UseCaseLog *service.SwitchUseCaseObserver
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer
	Ping       func(ctx context.Context) error
}

// NewRootCmd creates the top-level "shiftclock" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "shiftclock",
		Short:         "Break and overtime compliance time tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var defaultUser, defaultOrg string
	if a.Config != nil {
		defaultUser, defaultOrg = a.Config.UserID, a.Config.OrganizationID
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.userID, "user", defaultUser, "Worker user ID (env SHIFTCLOCK_USER)")
	pf.StringVar(&opts.orgID, "org", defaultOrg, "Organization ID (env SHIFTCLOCK_ORG)")
	pf.BoolVar(&opts.json, "json", false, "Print JSON instead of formatted output")

	root.AddCommand(
		newClockInCmd(a, opts),
		newClockOutCmd(a, opts),
		newBreakCmd(a, opts),
		newStatusCmd(a, opts),
		newWatchCmd(a, opts),
		newReportCmd(a, opts),
		newTimesheetCmd(a, opts),
		newCorrectionCmd(a, opts),
		newSweepCmd(a, opts),
		newServeCmd(a),
	)

	return root
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	userID string
	orgID  string
	json   bool
}

func (o *rootOptions) actor() (app.Actor, error) {
	actor := app.Actor{UserID: o.userID, OrganizationID: o.orgID}
	if err := actor.Validate(); err != nil {
		return app.Actor{}, err
	}
	return actor, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) location() *time.Location {
	return a.Config.Location()
}
