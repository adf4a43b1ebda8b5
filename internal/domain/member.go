// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Member is a user account with a role inside an organization.
// JoinedAt is the onboarding date reported by the API for the account.
type Member struct {
	Login    string
	JoinedAt time.Time
}

// CommitRef points at the concrete commit a first contribution was taken from.
type CommitRef struct {
	SHA        string `json:"sha" yaml:"sha"`
	URL        string `json:"url,omitempty" yaml:"url,omitempty"`
	Repository string `json:"repository,omitempty" yaml:"repository,omitempty"`
	Branch     string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// Commit is a single commit authored by a login, as listed on one branch.
type Commit struct {
	SHA        string
	URL        string
	AuthoredAt time.Time
}

// ContributionFact is the resolved earliest contribution of one login.
// A nil FirstContributionAt means no contribution was found, which is not an error.
type ContributionFact struct {
	Login               string
	FirstContributionAt *time.Time
	Commit              *CommitRef
}

// Found reports whether a contribution was found.
func (f ContributionFact) Found() bool {
	return f.FirstContributionAt != nil
}

// JoinedRecord is one member joined with their first contribution.
// It is the unit written to the report.
type JoinedRecord struct {
	Login               string     `json:"login" yaml:"login"`
	JoinedAt            time.Time  `json:"joined_at" yaml:"joined_at"`
	FirstContributionAt *time.Time `json:"first_contribution_at" yaml:"first_contribution_at"`
	DerivedGapDays      *int       `json:"derived_gap_days" yaml:"derived_gap_days"`
	Commit              *CommitRef `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// NewJoinedRecord joins a member with its contribution fact.
// The gap is only set when both timestamps are present.
func NewJoinedRecord(m Member, fact ContributionFact) JoinedRecord {
	rec := JoinedRecord{
		Login:    m.Login,
		JoinedAt: m.JoinedAt.UTC(),
		Commit:   fact.Commit,
	}
	if fact.FirstContributionAt != nil {
		first := fact.FirstContributionAt.UTC()
		gap := DaysBetween(rec.JoinedAt, first)
		rec.FirstContributionAt = &first
		rec.DerivedGapDays = &gap
	}
	return rec
}
