package cli

import (
	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(a *App, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Daily and weekly hours with overtime",
	}
	cmd.AddCommand(newReportDayCmd(a, opts), newReportWeekCmd(a, opts))
	return cmd
}

func newReportDayCmd(a *App, opts *rootOptions) *cobra.Command {
	var date dateValue

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Summarize one work day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			sum, err := a.Reports.Daily(cmd.Context(), actor, date.orToday(a.now(), a.location()))
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromDailySummary(sum), func() string {
				return formatter.FormatDaily(sum)
			})
		},
	}

	cmd.Flags().Var(&date, "date", "Work date as YYYY-MM-DD (default today)")
	return cmd
}

func newReportWeekCmd(a *App, opts *rootOptions) *cobra.Command {
	var week dateValue

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Summarize the Monday-start week containing a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			sum, err := a.Reports.Weekly(cmd.Context(), actor, week.orToday(a.now(), a.location()))
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromWeeklySummary(sum), func() string {
				return formatter.FormatWeekly(sum)
			})
		},
	}

	cmd.Flags().Var(&week, "week", "Any date in the week as YYYY-MM-DD (default this week)")
	return cmd
}

func newTimesheetCmd(a *App, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timesheet",
		Short: "Approve or reject a worker's day",
		Long: "Review another worker's timesheet for one day. The reviewer is the\n" +
			"--user/--org actor and must belong to the same organization.",
	}
	cmd.AddCommand(
		newReviewCmd(a, opts, domain.ReviewApproved, "approve", "Approve a worker's day"),
		newReviewCmd(a, opts, domain.ReviewRejected, "reject", "Reject a worker's day (requires --notes)"),
	)
	return cmd
}

func newReviewCmd(a *App, opts *rootOptions, status domain.ReviewStatus, use, short string) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   use + " USER DATE",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, err := opts.actor()
			if err != nil {
				return err
			}

			var date dateValue
			if err := date.Set(args[1]); err != nil {
				return err
			}

			if status == domain.ReviewRejected {
				if notes, err = a.rejectionReason(cmd.Context(), notes); err != nil {
					return err
				}
			}

			approval, err := a.Approvals.Review(cmd.Context(), reviewer, app.ReviewRequest{
				SubjectUserID: args[0],
				WorkDate:      date.String(),
				Status:        status,
				Notes:         notes,
			})
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromApproval(approval), func() string {
				return formatter.FormatApproval(approval, a.location())
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	return cmd
}
