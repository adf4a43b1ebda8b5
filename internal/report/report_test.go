package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

func sampleRecords() []domain.JoinedRecord {
	joined := time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)
	return []domain.JoinedRecord{
		domain.NewJoinedRecord(
			domain.Member{Login: "alice", JoinedAt: joined},
			domain.ContributionFact{Login: "alice", FirstContributionAt: timePtr(time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC))},
		),
		domain.NewJoinedRecord(
			domain.Member{Login: "bob", JoinedAt: joined},
			domain.ContributionFact{Login: "bob", FirstContributionAt: timePtr(time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC))},
		),
		domain.NewJoinedRecord(
			domain.Member{Login: "carol", JoinedAt: joined},
			domain.ContributionFact{Login: "carol"},
		),
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "yaml", "table"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConfig))
}

func TestEncode_JSON(t *testing.T) {
	b, err := Encode(sampleRecords(), FormatJSON)
	require.NoError(t, err)

	expected := `[
  {
    "login": "alice",
    "joined_at": "2022-01-10T00:00:00Z",
    "first_contribution_at": "2022-03-01T00:00:00Z",
    "derived_gap_days": 50
  },
  {
    "login": "bob",
    "joined_at": "2022-01-10T00:00:00Z",
    "first_contribution_at": "2021-12-01T00:00:00Z",
    "derived_gap_days": -40
  },
  {
    "login": "carol",
    "joined_at": "2022-01-10T00:00:00Z",
    "first_contribution_at": null,
    "derived_gap_days": null
  }
]
`
	assert.Equal(t, expected, string(b))
}

func TestEncode_EmptyIsArray(t *testing.T) {
	b, err := Encode(nil, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(b))
}

func TestEncode_YAML(t *testing.T) {
	b, err := Encode(sampleRecords(), FormatYAML)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(b, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "alice", decoded[0]["login"])
	assert.Equal(t, 50, decoded[0]["derived_gap_days"])
	assert.Equal(t, -40, decoded[1]["derived_gap_days"])
	assert.Contains(t, decoded[2], "first_contribution_at")
	assert.Nil(t, decoded[2]["first_contribution_at"])
	assert.Nil(t, decoded[2]["derived_gap_days"])
}

func TestEncode_Table(t *testing.T) {
	b, err := Encode(sampleRecords(), FormatTable)
	require.NoError(t, err)

	out := string(b)
	assert.Contains(t, out, "Login")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "-40")
	lines := strings.Split(out, "\n")
	var carol string
	for _, l := range lines {
		if strings.Contains(l, "carol") {
			carol = l
		}
	}
	assert.Contains(t, carol, " - ", "absent values are shown as placeholders")
}

func TestEncode_Deterministic(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTable} {
		first, err := Encode(sampleRecords(), f)
		require.NoError(t, err)
		second, err := Encode(sampleRecords(), f)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second), "format %s", f)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleRecords(), FormatJSON))

	var decoded []domain.JoinedRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRecords(), decoded)

	assert.Error(t, Write(&buf, sampleRecords(), Format("xml")))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	require.NoError(t, WriteFile(path, sampleRecords(), FormatJSON))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	expected, err := Encode(sampleRecords(), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, expected, b)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestWriteFile_FailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	err := WriteFile(path, sampleRecords(), Format("xml"))
	require.Error(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))

	err = WriteFile(filepath.Join(dir, "missing", "out.json"), sampleRecords(), FormatJSON)
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(statErr))
}
