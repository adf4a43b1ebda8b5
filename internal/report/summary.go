package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// Summary aggregates the day gaps of a run.
// Gap statistics only cover members with a first contribution and are zero when there are none.
type Summary struct {
	Members             int
	WithContribution    int
	WithoutContribution int
	BeforeOnboarding    int

	MeanGapDays   float64
	MedianGapDays float64
	P90GapDays    float64
	MinGapDays    float64
	MaxGapDays    float64
}

// Summarize computes the gap statistics of records.
func Summarize(records []domain.JoinedRecord) (Summary, error) {
	s := Summary{Members: len(records)}

	gaps := make(stats.Float64Data, 0, len(records))
	for _, rec := range records {
		if rec.DerivedGapDays == nil {
			s.WithoutContribution++
			continue
		}
		s.WithContribution++
		if *rec.DerivedGapDays < 0 {
			s.BeforeOnboarding++
		}
		gaps = append(gaps, float64(*rec.DerivedGapDays))
	}
	if len(gaps) == 0 {
		return s, nil
	}

	var err error
	if s.MeanGapDays, err = stats.Mean(gaps); err != nil {
		return s, fmt.Errorf("failed to compute mean gap: %w", err)
	}
	if s.MedianGapDays, err = stats.Median(gaps); err != nil {
		return s, fmt.Errorf("failed to compute median gap: %w", err)
	}
	if s.P90GapDays, err = stats.Percentile(gaps, 90); err != nil {
		return s, fmt.Errorf("failed to compute 90th percentile gap: %w", err)
	}
	if s.MinGapDays, err = stats.Min(gaps); err != nil {
		return s, fmt.Errorf("failed to compute minimum gap: %w", err)
	}
	if s.MaxGapDays, err = stats.Max(gaps); err != nil {
		return s, fmt.Errorf("failed to compute maximum gap: %w", err)
	}
	return s, nil
}

// WriteSummary renders s as a two-column table.
func WriteSummary(w io.Writer, s Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoFormatHeaders(false)
	table.AppendBulk([][]string{
		{"Members", strconv.Itoa(s.Members)},
		{"With contribution", strconv.Itoa(s.WithContribution)},
		{"Without contribution", strconv.Itoa(s.WithoutContribution)},
		{"Contributed before onboarding", strconv.Itoa(s.BeforeOnboarding)},
		{"Mean gap (days)", formatDays(s.MeanGapDays)},
		{"Median gap (days)", formatDays(s.MedianGapDays)},
		{"P90 gap (days)", formatDays(s.P90GapDays)},
		{"Min gap (days)", formatDays(s.MinGapDays)},
		{"Max gap (days)", formatDays(s.MaxGapDays)},
	})
	table.Render()
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
