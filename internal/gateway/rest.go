package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// restPage converts a go-github page into a Page, carrying the next page number as the cursor.
func restPage[T any](nodes []T, resp *github.Response) Page[T] {
	p := Page[T]{Nodes: nodes}
	if resp != nil && resp.NextPage != 0 {
		p.HasNextPage = true
		p.EndCursor = strconv.Itoa(resp.NextPage)
	}
	return p
}

func pageNumber(op, cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(cursor)
	if err != nil {
		return 0, domain.ProtocolError(op, fmt.Errorf("invalid page cursor %q: %w", cursor, err))
	}
	return n, nil
}

// FetchUserCreatedAt returns the account creation date of login.
func (g *GitHubGateway) FetchUserCreatedAt(ctx context.Context, login string) (time.Time, error) {
	const op = "gateway.fetch_user"
	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return time.Time{}, domain.TransportError(op, fmt.Errorf("failed to get user %s: %w", login, err))
	}
	createdAt := user.GetCreatedAt()
	if createdAt.IsZero() {
		return time.Time{}, domain.ProtocolError(op, fmt.Errorf("user %s has no created_at", login))
	}
	return createdAt.UTC(), nil
}

// SearchFirstCommit finds the oldest commit authored by login in org with the commit search API.
func (g *GitHubGateway) SearchFirstCommit(ctx context.Context, org, login string) (domain.ContributionFact, error) {
	const op = "gateway.search_first_commit"
	fact := domain.ContributionFact{Login: login}

	query := fmt.Sprintf("author:%s org:%s", login, org)
	opts := &github.SearchOptions{
		Sort:        "author-date",
		Order:       "asc",
		ListOptions: github.ListOptions{PerPage: 1},
	}
	result, _, err := g.restClient.Search.Commits(ctx, query, opts)
	if err != nil {
		return fact, domain.TransportError(op, fmt.Errorf("failed to search commits with REST API: %w", err))
	}
	if len(result.Commits) == 0 {
		return fact, nil
	}

	first := result.Commits[0]
	date := first.GetCommit().GetAuthor().GetDate()
	if date.IsZero() {
		return fact, domain.ProtocolError(op, fmt.Errorf("commit %s has no author date", first.GetSHA()))
	}
	at := date.UTC()
	fact.FirstContributionAt = &at
	fact.Commit = &domain.CommitRef{
		SHA:        first.GetSHA(),
		URL:        first.GetHTMLURL(),
		Repository: first.GetRepository().GetFullName(),
	}
	return fact, nil
}

// ListRepositories returns the names of all repositories of org.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string) ([]string, error) {
	const op = "gateway.list_repositories"
	g.logger.Printf("Fetching repositories of %s using REST API...", org)

	repos, err := Walk(ctx, func(ctx context.Context, cursor string) (Page[string], error) {
		n, err := pageNumber(op, cursor)
		if err != nil {
			return Page[string]{}, err
		}
		opts := &github.RepositoryListByOrgOptions{
			ListOptions: github.ListOptions{PerPage: g.pageSize, Page: n},
		}
		repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return Page[string]{}, domain.TransportError(op, fmt.Errorf("failed to list repositories: %w", err))
		}
		names := make([]string, 0, len(repos))
		for _, repo := range repos {
			if repo.GetName() == "" {
				return Page[string]{}, domain.ProtocolError(op, errors.New("repository without name"))
			}
			names = append(names, repo.GetName())
		}
		return restPage(names, resp), nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Printf("Completed fetching %d repositories of %s.", len(repos), org)
	return repos, nil
}

// ListBranches returns the branch names of org/repo.
func (g *GitHubGateway) ListBranches(ctx context.Context, org, repo string) ([]string, error) {
	const op = "gateway.list_branches"
	return Walk(ctx, func(ctx context.Context, cursor string) (Page[string], error) {
		n, err := pageNumber(op, cursor)
		if err != nil {
			return Page[string]{}, err
		}
		opts := &github.BranchListOptions{
			ListOptions: github.ListOptions{PerPage: g.pageSize, Page: n},
		}
		branches, resp, err := g.restClient.Repositories.ListBranches(ctx, org, repo, opts)
		if err != nil {
			return Page[string]{}, domain.TransportError(op, fmt.Errorf("failed to list branches for %s/%s: %w", org, repo, err))
		}
		names := make([]string, 0, len(branches))
		for _, b := range branches {
			if b.GetName() == "" {
				return Page[string]{}, domain.ProtocolError(op, fmt.Errorf("branch without name in %s/%s", org, repo))
			}
			names = append(names, b.GetName())
		}
		return restPage(names, resp), nil
	})
}

// ListCommitsByAuthor returns the commits authored by login on one branch of org/repo.
// An empty repository has no commits and is not an error.
func (g *GitHubGateway) ListCommitsByAuthor(ctx context.Context, org, repo, branch, login string) ([]domain.Commit, error) {
	const op = "gateway.list_commits"
	return Walk(ctx, func(ctx context.Context, cursor string) (Page[domain.Commit], error) {
		n, err := pageNumber(op, cursor)
		if err != nil {
			return Page[domain.Commit]{}, err
		}
		opts := &github.CommitsListOptions{
			SHA:         branch,
			Author:      login,
			ListOptions: github.ListOptions{PerPage: g.pageSize, Page: n},
		}
		commits, resp, err := g.restClient.Repositories.ListCommits(ctx, org, repo, opts)
		if err != nil {
			// Skip if repository is empty
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return Page[domain.Commit]{}, nil
			}
			return Page[domain.Commit]{}, domain.TransportError(op, fmt.Errorf("failed to list commits for %s/%s@%s: %w", org, repo, branch, err))
		}
		result := make([]domain.Commit, 0, len(commits))
		for _, c := range commits {
			date := c.GetCommit().GetAuthor().GetDate()
			if date.IsZero() {
				return Page[domain.Commit]{}, domain.ProtocolError(op, fmt.Errorf("commit %s has no author date", c.GetSHA()))
			}
			result = append(result, domain.Commit{
				SHA:        c.GetSHA(),
				URL:        c.GetHTMLURL(),
				AuthoredAt: date.UTC(),
			})
		}
		return restPage(result, resp), nil
	})
}
