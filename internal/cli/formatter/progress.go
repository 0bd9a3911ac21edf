package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 1h 30m / 2h for done out of
// total minutes. The bar turns green once the goal is reached.
func RenderProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total <= 0 {
		total = 1
	}
	if done < 0 {
		done = 0
	}

	pct := float64(done) / float64(total)
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleYellow
	if done >= total {
		style = StyleGreen
	}
	return fmt.Sprintf("[%s] %s / %s", style.Render(bar), FormatMinutes(done), FormatMinutes(total))
}
