package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// membersQuery pages through the members of an organization.
// Organization is a pointer so that a missing object can be told apart from an empty one.
type membersQuery struct {
	Organization *struct {
		MembersWithRole struct {
			PageInfo *struct {
				HasNextPage bool
				EndCursor   *githubv4.String
			}
			Nodes []struct {
				Login     githubv4.String
				CreatedAt githubv4.DateTime
			}
		} `graphql:"membersWithRole(first: $pageSize, after: $cursor)"`
	} `graphql:"organization(login: $org)"`
}

// firstContributionQuery asks for the oldest commit contribution of a user,
// limited to one repository grouping.
type firstContributionQuery struct {
	User *struct {
		ContributionsCollection struct {
			CommitContributionsByRepository []struct {
				Contributions struct {
					Nodes []struct {
						OccurredAt githubv4.DateTime
					}
				} `graphql:"contributions(first: 1, orderBy: {field: OCCURRED_AT, direction: ASC})"`
			} `graphql:"commitContributionsByRepository(maxRepositories: 1)"`
		}
	} `graphql:"user(login: $login)"`
}

// FetchMembers retrieves all members of an organization through the GraphQL API.
func (g *GitHubGateway) FetchMembers(ctx context.Context, org string) ([]domain.Member, error) {
	const op = "gateway.fetch_members"
	g.logger.Printf("Fetching members of %s using GraphQL API...", org)

	page := 0
	members, err := Walk(ctx, func(ctx context.Context, cursor string) (Page[domain.Member], error) {
		page++
		if page > 1 {
			g.logger.Printf("  Fetching page %d of members...", page)
		}
		variables := map[string]interface{}{
			"org":      githubv4.String(org),
			"pageSize": githubv4.Int(g.pageSize),
			"cursor":   (*githubv4.String)(nil),
		}
		if cursor != "" {
			variables["cursor"] = githubv4.NewString(githubv4.String(cursor))
		}

		var q membersQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return Page[domain.Member]{}, domain.TransportError(op, fmt.Errorf("failed to execute GraphQL query for members: %w", err))
		}
		if q.Organization == nil {
			return Page[domain.Member]{}, domain.ProtocolError(op, fmt.Errorf("organization %q missing from response", org))
		}

		conn := q.Organization.MembersWithRole
		if conn.PageInfo == nil {
			return Page[domain.Member]{}, domain.ProtocolError(op, fmt.Errorf("pageInfo missing from members page %d", page))
		}
		result := Page[domain.Member]{
			Nodes:       make([]domain.Member, 0, len(conn.Nodes)),
			HasNextPage: conn.PageInfo.HasNextPage,
		}
		if conn.PageInfo.EndCursor != nil {
			result.EndCursor = string(*conn.PageInfo.EndCursor)
		}
		for i, node := range conn.Nodes {
			if node.Login == "" {
				return Page[domain.Member]{}, domain.ProtocolError(op, fmt.Errorf("member %d on page %d has no login", i, page))
			}
			if node.CreatedAt.IsZero() {
				return Page[domain.Member]{}, domain.ProtocolError(op, fmt.Errorf("member %s has no createdAt", node.Login))
			}
			result.Nodes = append(result.Nodes, domain.Member{
				Login:    string(node.Login),
				JoinedAt: node.CreatedAt.UTC(),
			})
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	g.logger.Printf("Completed fetching %d members of %s.", len(members), org)
	return members, nil
}

// FetchEarliestContribution resolves the first commit contribution of login with one query.
// A user without commit contributions yields a fact with no timestamp.
func (g *GitHubGateway) FetchEarliestContribution(ctx context.Context, login string) (domain.ContributionFact, error) {
	const op = "gateway.fetch_earliest_contribution"
	fact := domain.ContributionFact{Login: login}

	var q firstContributionQuery
	variables := map[string]interface{}{"login": githubv4.String(login)}
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return fact, domain.TransportError(op, fmt.Errorf("failed to execute GraphQL query for %s: %w", login, err))
	}
	if q.User == nil {
		return fact, domain.ProtocolError(op, fmt.Errorf("user %q missing from response", login))
	}

	byRepo := q.User.ContributionsCollection.CommitContributionsByRepository
	if len(byRepo) == 0 || len(byRepo[0].Contributions.Nodes) == 0 {
		return fact, nil
	}
	occurredAt := byRepo[0].Contributions.Nodes[0].OccurredAt
	if occurredAt.IsZero() {
		return fact, domain.ProtocolError(op, errors.New("contribution without occurredAt"))
	}
	first := occurredAt.UTC()
	fact.FirstContributionAt = &first
	return fact, nil
}
