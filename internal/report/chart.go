package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// RenderChart writes an HTML bar chart of the day gap per member.
// Members without a first contribution are left out.
func RenderChart(w io.Writer, org string, records []domain.JoinedRecord) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Days to first contribution",
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Days from onboarding to first contribution in %s", org),
			Subtitle: "negative values: contributed before the account was created",
		}),
	)

	logins := make([]string, 0, len(records))
	data := make([]opts.BarData, 0, len(records))
	for _, rec := range records {
		if rec.DerivedGapDays == nil {
			continue
		}
		logins = append(logins, rec.Login)
		data = append(data, opts.BarData{Name: rec.Login, Value: *rec.DerivedGapDays})
	}

	bar.SetXAxis(logins).AddSeries("Gap (days)", data)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// WriteChartFile renders the chart to path with the same atomic replace as WriteFile.
func WriteChartFile(path, org string, records []domain.JoinedRecord) error {
	var buf bytes.Buffer
	if err := RenderChart(&buf, org, records); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}
