package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/naka-gawa/github-onboarding/internal/domain"
	"github.com/naka-gawa/github-onboarding/internal/gateway"
)

// Strategy selects how a first contribution is resolved.
type Strategy string

const (
	// StrategyAggregated asks the GraphQL contributions collection of the user for its
	// oldest commit contribution, limited to one repository grouping.
	StrategyAggregated Strategy = "aggregated"
	// StrategySearch uses the REST commit search scoped to the organization.
	StrategySearch Strategy = "search"
	// StrategyExhaustive walks every repository and branch of the organization and
	// keeps the oldest commit authored by the user.
	StrategyExhaustive Strategy = "exhaustive"
)

// Strategies lists the accepted strategy names.
var Strategies = []Strategy{StrategyAggregated, StrategySearch, StrategyExhaustive}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	for _, known := range Strategies {
		if Strategy(s) == known {
			return known, nil
		}
	}
	return "", domain.ConfigError("usecase.parse_strategy", fmt.Errorf("unknown strategy %q (want one of %v)", s, Strategies))
}

// Resolver determines the earliest known contribution of one login.
// A login without contributions yields a fact with a nil timestamp and no error.
type Resolver interface {
	Resolve(ctx context.Context, login string) (domain.ContributionFact, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, login string) (domain.ContributionFact, error)

func (f ResolverFunc) Resolve(ctx context.Context, login string) (domain.ContributionFact, error) {
	return f(ctx, login)
}

// NewResolver returns the Resolver implementing strategy against org.
func NewResolver(fetcher gateway.Fetcher, strategy Strategy, org string, logger *log.Logger) (Resolver, error) {
	switch strategy {
	case StrategyAggregated:
		return ResolverFunc(fetcher.FetchEarliestContribution), nil
	case StrategySearch:
		return ResolverFunc(func(ctx context.Context, login string) (domain.ContributionFact, error) {
			return fetcher.SearchFirstCommit(ctx, org, login)
		}), nil
	case StrategyExhaustive:
		return &exhaustiveResolver{fetcher: fetcher, org: org, logger: logger}, nil
	default:
		return nil, domain.ConfigError("usecase.new_resolver", fmt.Errorf("unknown strategy %q", strategy))
	}
}

// exhaustiveResolver scans repositories x branches x commits of one organization.
// The repository and branch lists are fetched once and reused for every login.
type exhaustiveResolver struct {
	fetcher gateway.Fetcher
	org     string
	logger  *log.Logger

	mu       sync.Mutex
	branches map[string][]string
	repos    []string
}

func (r *exhaustiveResolver) Resolve(ctx context.Context, login string) (domain.ContributionFact, error) {
	fact := domain.ContributionFact{Login: login}
	if err := r.load(ctx); err != nil {
		return fact, err
	}

	r.logger.Printf("Scanning %d repositories of %s for commits by %s...", len(r.repos), r.org, login)
	for _, repo := range r.repos {
		for _, branch := range r.branches[repo] {
			commits, err := r.fetcher.ListCommitsByAuthor(ctx, r.org, repo, branch, login)
			if err != nil {
				return domain.ContributionFact{Login: login}, err
			}
			for _, c := range commits {
				if fact.FirstContributionAt != nil && !c.AuthoredAt.Before(*fact.FirstContributionAt) {
					continue
				}
				at := c.AuthoredAt
				fact.FirstContributionAt = &at
				fact.Commit = &domain.CommitRef{
					SHA:        c.SHA,
					URL:        c.URL,
					Repository: r.org + "/" + repo,
					Branch:     branch,
				}
			}
		}
	}
	return fact, nil
}

// load fetches the repository and branch lists on first use.
func (r *exhaustiveResolver) load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.branches != nil {
		return nil
	}
	repos, err := r.fetcher.ListRepositories(ctx, r.org)
	if err != nil {
		return err
	}
	branches := make(map[string][]string, len(repos))
	for _, repo := range repos {
		names, err := r.fetcher.ListBranches(ctx, r.org, repo)
		if err != nil {
			return err
		}
		branches[repo] = names
	}
	r.repos = repos
	r.branches = branches
	return nil
}
