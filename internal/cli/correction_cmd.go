package cli

import (
	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/cli/formatter"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/spf13/cobra"
)

func newCorrectionCmd(a *App, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correction",
		Short: "Request and review fixes to recorded sessions",
		Long: "Workers request new clock-in and clock-out times for a closed session,\n" +
			"or for a session that was never recorded. Another member of the same\n" +
			"organization approves or rejects the request.",
	}
	cmd.AddCommand(
		newCorrectionRequestCmd(a, opts),
		newCorrectionListCmd(a, opts),
		newCorrectionReviewCmd(a, opts, domain.ReviewApproved, "approve", "Approve a request and apply its times"),
		newCorrectionReviewCmd(a, opts, domain.ReviewRejected, "reject", "Reject a request (requires --notes)"),
	)
	return cmd
}

func newCorrectionRequestCmd(a *App, opts *rootOptions) *cobra.Command {
	var in, out, reason string

	cmd := &cobra.Command{
		Use:   "request [SESSION_ID]",
		Short: "Propose new times for a session; omit the ID to add a missing one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			loc := a.location()
			clockIn, err := parseLocalTime("in", in, loc)
			if err != nil {
				return err
			}
			clockOut, err := parseLocalTime("out", out, loc)
			if err != nil {
				return err
			}

			sub := app.CorrectionSubmission{ClockIn: clockIn, ClockOut: clockOut, Reason: reason}
			if len(args) == 1 {
				sub.SessionID = args[0]
			}
			req, err := a.Corrections.Submit(cmd.Context(), actor, sub)
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromCorrection(req), func() string {
				return formatter.FormatCorrection(req, loc)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&in, "in", "", "Corrected clock-in as \"YYYY-MM-DD HH:MM\"")
	f.StringVar(&out, "out", "", "Corrected clock-out as \"YYYY-MM-DD HH:MM\"")
	f.StringVar(&reason, "reason", "", "Why the recorded times are wrong")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newCorrectionListCmd(a *App, opts *rootOptions) *cobra.Command {
	var status string
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the organization's correction requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := opts.actor()
			if err != nil {
				return err
			}
			q := app.CorrectionQuery{Status: domain.CorrectionStatus(status)}
			if mine {
				q.UserID = actor.UserID
			}
			list, err := a.Corrections.List(cmd.Context(), actor, q)
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromCorrections(list), func() string {
				return formatter.FormatCorrections(list, a.location())
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only pending, approved or rejected requests")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only requests filed by --user")
	return cmd
}

func newCorrectionReviewCmd(a *App, opts *rootOptions, status domain.ReviewStatus, use, short string) *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   use + " REQUEST_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, err := opts.actor()
			if err != nil {
				return err
			}
			if status == domain.ReviewRejected {
				if notes, err = a.rejectionReason(cmd.Context(), notes); err != nil {
					return err
				}
			}

			req, err := a.Corrections.Review(cmd.Context(), reviewer, app.CorrectionDecision{
				RequestID: args[0],
				Status:    status,
				Notes:     notes,
			})
			if err != nil {
				return err
			}
			return render(cmd, opts, contract.FromCorrection(req), func() string {
				return formatter.FormatCorrection(req, a.location())
			})
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	return cmd
}
