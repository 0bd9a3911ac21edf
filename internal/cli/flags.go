package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/spf13/pflag"
)

// dateValue is a YYYY-MM-DD flag. An unset flag resolves to today in the
// configured zone.
type dateValue struct {
	value string
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string { return d.value }

func (d *dateValue) Set(s string) error {
	if _, err := time.Parse(domain.WorkDateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
	}
	d.value = s
	return nil
}

func (d *dateValue) Type() string { return "date" }

// orToday returns the flag value or today's date in loc.
func (d *dateValue) orToday(now time.Time, loc *time.Location) string {
	if d.value != "" {
		return d.value
	}
	return now.In(loc).Format(domain.WorkDateLayout)
}

// localTimeLayout is the wall-clock format of --in and --out.
const localTimeLayout = "2006-01-02 15:04"

// parseLocalTime reads s as a wall-clock time in loc.
func parseLocalTime(flag, s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(localTimeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s %q, want YYYY-MM-DD HH:MM", domain.ErrInvalidCorrection, flag, s)
	}
	return t, nil
}
