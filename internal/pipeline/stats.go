package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/hospitality-cli/internal/model"
)

// Summary aggregates batch outcomes for the end-of-run report.
type Summary struct {
	Total       int
	Independent int
	Grouped     int
	Errors      int
	Verified    int
}

// Summarize partitions annotated records into summary buckets. Every row
// with a non-empty group lands in exactly one of independent, grouped, or
// error; unprocessed rows count only toward the total.
func Summarize(records []model.Record) Summary {
	s := Summary{Total: len(records)}
	for i := range records {
		r := &records[i]
		switch {
		case r.IsError():
			s.Errors++
		case r.IsIndependent():
			s.Independent++
		case r.HasGroup():
			s.Grouped++
		}
		if r.IsVerified() {
			s.Verified++
		}
	}
	return s
}

// Format renders the summary block printed at the end of a batch.
func (s Summary) Format() string {
	var b strings.Builder
	b.WriteString("=== Summary ===\n")
	fmt.Fprintf(&b, "Total restaurants: %d\n", s.Total)
	fmt.Fprintf(&b, "Independent: %d (%.1f%%)\n", s.Independent, pct(s.Independent, s.Total))
	fmt.Fprintf(&b, "Part of groups: %d (%.1f%%)\n", s.Grouped, pct(s.Grouped, s.Total))
	if s.Errors > 0 {
		fmt.Fprintf(&b, "Errors: %d (%.1f%%)\n", s.Errors, pct(s.Errors, s.Total))
	}
	fmt.Fprintf(&b, "Verified: %d (%.1f%%)\n", s.Verified, pct(s.Verified, s.Total))
	return b.String()
}

// pct guards the empty-dataset edge so zero rows prints 0.0 rather than NaN.
func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
