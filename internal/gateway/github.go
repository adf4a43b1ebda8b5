// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-onboarding/internal/config"
	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchMembers returns every member of org in API order.
	FetchMembers(ctx context.Context, org string) ([]domain.Member, error)
	// FetchUserCreatedAt returns the account creation date of login.
	FetchUserCreatedAt(ctx context.Context, login string) (time.Time, error)

	// FetchEarliestContribution asks the contributions collection of login for its
	// oldest commit contribution in a single query.
	FetchEarliestContribution(ctx context.Context, login string) (domain.ContributionFact, error)
	// SearchFirstCommit uses the commit search API, sorted by author date, scoped to org.
	SearchFirstCommit(ctx context.Context, org, login string) (domain.ContributionFact, error)

	ListRepositories(ctx context.Context, org string) ([]string, error)
	ListBranches(ctx context.Context, org, repo string) ([]string, error)
	ListCommitsByAuthor(ctx context.Context, org, repo, branch, login string) ([]domain.Commit, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	pageSize      int
	logger        *log.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Every request made through it is bounded by cfg.Timeout. The secondary rate limit
// waiter is only installed when cfg.MaxRateLimitWait is positive.
func NewGitHubGateway(cfg *config.Config, logger *log.Logger) (*GitHubGateway, error) {
	if cfg.Token == "" {
		return nil, domain.ConfigError("gateway.new", domain.ErrMissingToken)
	}

	var base http.RoundTripper = http.DefaultTransport
	if cfg.MaxRateLimitWait > 0 {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
			github_ratelimit.WithSingleSleepLimit(cfg.MaxRateLimitWait, nil),
			github_ratelimit.WithLimitDetectedCallback(func(cbCtx *github_ratelimit.CallbackContext) {
				if cbCtx.SleepUntil != nil {
					logger.Printf("  Secondary rate limit hit, sleeping until %s", cbCtx.SleepUntil.Format(time.RFC3339))
				}
			}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &oauth2.Transport{
			Base:   base,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if cfg.RESTURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.RESTURL, "/") + "/")
		if err != nil {
			return nil, domain.ConfigError("gateway.new", fmt.Errorf("invalid REST API URL: %w", err))
		}
		restClient.BaseURL = baseURL
	}

	graphqlClient := githubv4.NewClient(httpClient)
	if cfg.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(cfg.GraphQLURL, httpClient)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > config.MaxPageSize {
		pageSize = config.DefaultPageSize
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		pageSize:      pageSize,
		logger:        logger,
	}, nil
}
