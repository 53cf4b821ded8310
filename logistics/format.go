package logistics

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/logimesh/internal/table"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// report accumulates a tool's text output.
type report struct {
	strings.Builder
}

func newReport(title string) *report {
	r := &report{}
	r.line("%s:", title)

	return r
}

func (r *report) line(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
	r.WriteByte('\n')
}

func (r *report) rule() { r.line(rule) }

func (r *report) blank() { r.WriteByte('\n') }

// counts renders a value count as indented "VALUE: n" lines.
func (r *report) counts(counts []table.Count) {
	for _, c := range counts {
		r.line("  %s: %d", c.Value, c.N)
	}
}

// money formats v with thousands separators and two decimals.
func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}

	return "$" + humanize.FormatFloat("#,###.##", v)
}

// whole formats v without decimals.
func whole(v float64) string {
	return fmt.Sprintf("%.0f", math.Round(v))
}

// percentChange returns (to-from)/from in percent, or 0 when from is not positive.
func percentChange(from, to float64) float64 {
	if from <= 0 {
		return 0
	}

	return (to - from) / from * 100
}
