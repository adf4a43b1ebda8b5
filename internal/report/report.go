// Package report renders joined records for people: as JSON, YAML or a table,
// as a statistics summary, and as an HTML chart.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// Format is an output encoding for joined records.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	}
	return "", domain.ConfigError("report.parse_format", fmt.Errorf("unknown format %q (want json, yaml or table)", s))
}

// Encode renders records in the given format.
// Encoding is deterministic: the same records always produce the same bytes.
func Encode(records []domain.JoinedRecord, format Format) ([]byte, error) {
	if records == nil {
		records = []domain.JoinedRecord{}
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("failed to marshal results to YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal results to YAML: %w", err)
		}
	case FormatTable:
		writeTable(&buf, records)
	default:
		return nil, domain.ConfigError("report.encode", fmt.Errorf("unknown format %q", format))
	}
	return buf.Bytes(), nil
}

// Write renders records to w.
func Write(w io.Writer, records []domain.JoinedRecord, format Format) error {
	b, err := Encode(records, format)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// WriteFile renders records to path. The file is replaced atomically: on any error
// the previous content (or absence) of path is left untouched.
func WriteFile(path string, records []domain.JoinedRecord, format Format) error {
	b, err := Encode(records, format)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}

func writeFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to move results to %s: %w", path, err)
	}
	return nil
}

func writeTable(w io.Writer, records []domain.JoinedRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Login", "Joined At", "First Contribution", "Gap (days)"})
	table.SetAutoFormatHeaders(false)
	for _, rec := range records {
		first, gap := "-", "-"
		if rec.FirstContributionAt != nil {
			first = rec.FirstContributionAt.Format(time.RFC3339)
		}
		if rec.DerivedGapDays != nil {
			gap = strconv.Itoa(*rec.DerivedGapDays)
		}
		table.Append([]string{rec.Login, rec.JoinedAt.Format(time.RFC3339), first, gap})
	}
	table.Render()
}
