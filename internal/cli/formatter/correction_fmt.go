package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
)

// FormatCorrection renders one correction request with its review state.
func FormatCorrection(c *domain.CorrectionRequest, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(correctionBadge(c.Status))
	b.WriteString(Dim("  for " + c.UserID))
	b.WriteString("\n")
	b.WriteString(KeyValue("Request", c.ID))
	if c.AddsSession() {
		b.WriteString(KeyValue("Session", Dim("missing, added on approval")))
	} else {
		b.WriteString(KeyValue("Session", TruncID(c.SessionID)))
		b.WriteString(KeyValue("Recorded", window(*c.OriginalClockIn, c.OriginalClockOut, loc)))
	}
	b.WriteString(KeyValue("Proposed", Bold(window(c.ProposedClockIn, &c.ProposedClockOut, loc))))
	b.WriteString(KeyValue("Reason", c.Reason))
	if c.ReviewedAt != nil {
		b.WriteString(KeyValue("Reviewer", c.ReviewerID))
		b.WriteString(KeyValue("Reviewed", c.ReviewedAt.In(locOrUTC(loc)).Format("2006-01-02 15:04")))
	}
	if c.ReviewNotes != "" {
		b.WriteString(KeyValue("Notes", c.ReviewNotes))
	}
	return b.String()
}

// FormatCorrections renders a list of requests as a table.
func FormatCorrections(list []domain.CorrectionRequest, loc *time.Location) string {
	if len(list) == 0 {
		return Dim("No correction requests.") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for i := range list {
		c := &list[i]
		rows = append(rows, []string{
			c.ID,
			c.UserID,
			window(c.ProposedClockIn, &c.ProposedClockOut, loc),
			c.Reason,
			correctionBadge(c.Status),
		})
	}
	return RenderTable(Cols("ID", "USER", "PROPOSED", "REASON", "STATUS"), rows, nil)
}

// correctionBadge reuses the review badge; pending renders as "… Pending".
func correctionBadge(status domain.CorrectionStatus) string {
	return ReviewBadge(domain.ReviewStatus(status))
}

func window(in time.Time, out *time.Time, loc *time.Location) string {
	start := in.In(locOrUTC(loc)).Format("Mon Jan 2 15:04")
	if out == nil {
		return start + " → ?"
	}
	return fmt.Sprintf("%s → %s", start, ClockTime(*out, in, loc))
}
