package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

const usDateLayout = "01/02/2006"

// Onboarding describes a single joined record as one sentence.
func Onboarding(rec domain.JoinedRecord, org string) string {
	if rec.FirstContributionAt == nil || rec.DerivedGapDays == nil {
		return fmt.Sprintf("No commits found for user %s in organization %s.", rec.Login, org)
	}
	return fmt.Sprintf("%s onboarded on %s, and committed for the first time %d days later, on %s.",
		rec.Login,
		rec.JoinedAt.UTC().Format(usDateLayout),
		*rec.DerivedGapDays,
		rec.FirstContributionAt.UTC().Format(usDateLayout),
	)
}

// firstCommit is the JSON shape of a single first commit.
type firstCommit struct {
	SHA        string    `json:"sha"`
	URL        string    `json:"url"`
	Repository string    `json:"repository,omitempty"`
	Date       time.Time `json:"date"`
}

// WriteFirstCommit prints the commit a fact was resolved from, or a notice when there is none.
func WriteFirstCommit(w io.Writer, fact domain.ContributionFact) error {
	if !fact.Found() {
		_, err := fmt.Fprintln(w, "No commits found for this user in the organization.")
		return err
	}
	out := firstCommit{Date: fact.FirstContributionAt.UTC()}
	if fact.Commit != nil {
		out.SHA = fact.Commit.SHA
		out.URL = fact.Commit.URL
		out.Repository = fact.Commit.Repository
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal commit to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
