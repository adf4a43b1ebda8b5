package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"aggregated", "search", "exhaustive"} {
		got, err := ParseStrategy(s)
		require.NoError(t, err)
		assert.Equal(t, Strategy(s), got)
	}

	_, err := ParseStrategy("guess")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConfig))
}

func TestNewResolver_UnknownStrategy(t *testing.T) {
	_, err := NewResolver(new(mockFetcher), Strategy("guess"), "any-org", log.New(io.Discard, "", 0))
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConfig))
}

func TestResolver_Search(t *testing.T) {
	fetcher := new(mockFetcher)
	fact := domain.ContributionFact{
		Login:               "alice",
		FirstContributionAt: datePtr(2021, 12, 1),
		Commit:              &domain.CommitRef{SHA: "abc", Repository: "any-org/repo-a"},
	}
	fetcher.On("SearchFirstCommit", mock.Anything, "any-org", "alice").Return(fact, nil)

	resolver, err := NewResolver(fetcher, StrategySearch, "any-org", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	got, err := resolver.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, fact, got)
	fetcher.AssertExpectations(t)
}

func TestResolver_Exhaustive(t *testing.T) {
	testCases := []struct {
		name         string
		setup        func(f *mockFetcher)
		expectedFact domain.ContributionFact
		expectError  bool
	}{
		{
			name: "happy path - minimum across repositories and branches",
			setup: func(f *mockFetcher) {
				f.On("ListRepositories", mock.Anything, "any-org").Return([]string{"repo-a", "repo-b"}, nil).Once()
				f.On("ListBranches", mock.Anything, "any-org", "repo-a").Return([]string{"main", "dev"}, nil).Once()
				f.On("ListBranches", mock.Anything, "any-org", "repo-b").Return([]string{"main"}, nil).Once()
				f.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-a", "main", "alice").Return([]domain.Commit{
					{SHA: "a1", AuthoredAt: date(2022, 5, 1)},
					{SHA: "a2", AuthoredAt: date(2022, 4, 1)},
				}, nil)
				f.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-a", "dev", "alice").Return([]domain.Commit{
					{SHA: "a3", URL: "https://github.com/any-org/repo-a/commit/a3", AuthoredAt: date(2022, 2, 1)},
				}, nil)
				f.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-b", "main", "alice").Return([]domain.Commit{
					{SHA: "b1", AuthoredAt: date(2022, 3, 1)},
				}, nil)
			},
			expectedFact: domain.ContributionFact{
				Login:               "alice",
				FirstContributionAt: datePtr(2022, 2, 1),
				Commit: &domain.CommitRef{
					SHA:        "a3",
					URL:        "https://github.com/any-org/repo-a/commit/a3",
					Repository: "any-org/repo-a",
					Branch:     "dev",
				},
			},
		},
		{
			name: "no commits anywhere - absent, not an error",
			setup: func(f *mockFetcher) {
				f.On("ListRepositories", mock.Anything, "any-org").Return([]string{"repo-a"}, nil).Once()
				f.On("ListBranches", mock.Anything, "any-org", "repo-a").Return([]string{"main"}, nil).Once()
				f.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-a", "main", "alice").Return([]domain.Commit{}, nil)
			},
			expectedFact: domain.ContributionFact{Login: "alice"},
		},
		{
			name: "organization without repositories",
			setup: func(f *mockFetcher) {
				f.On("ListRepositories", mock.Anything, "any-org").Return([]string{}, nil).Once()
			},
			expectedFact: domain.ContributionFact{Login: "alice"},
		},
		{
			name: "error case - commit listing fails",
			setup: func(f *mockFetcher) {
				f.On("ListRepositories", mock.Anything, "any-org").Return([]string{"repo-a"}, nil).Once()
				f.On("ListBranches", mock.Anything, "any-org", "repo-a").Return([]string{"main"}, nil).Once()
				f.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-a", "main", "alice").Return(nil, domain.TransportError("gateway.list_commits", errors.New("500")))
			},
			expectError: true,
		},
		{
			name: "error case - repository listing fails",
			setup: func(f *mockFetcher) {
				f.On("ListRepositories", mock.Anything, "any-org").Return(nil, domain.TransportError("gateway.list_repositories", errors.New("401")))
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			tc.setup(fetcher)

			resolver, err := NewResolver(fetcher, StrategyExhaustive, "any-org", log.New(io.Discard, "", 0))
			require.NoError(t, err)

			fact, err := resolver.Resolve(context.Background(), "alice")
			if tc.expectError {
				assert.Error(t, err)
				assert.True(t, domain.IsKind(err, domain.KindTransport))
				assert.Nil(t, fact.FirstContributionAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedFact, fact)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestResolver_ExhaustiveListsRepositoriesOnce(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("ListRepositories", mock.Anything, "any-org").Return([]string{"repo-a"}, nil).Once()
	fetcher.On("ListBranches", mock.Anything, "any-org", "repo-a").Return([]string{"main"}, nil).Once()
	fetcher.On("ListCommitsByAuthor", mock.Anything, "any-org", "repo-a", "main", mock.Anything).Return([]domain.Commit{}, nil)

	resolver, err := NewResolver(fetcher, StrategyExhaustive, "any-org", log.New(io.Discard, "", 0))
	require.NoError(t, err)

	for _, login := range []string{"alice", "bob", "carol"} {
		_, err := resolver.Resolve(context.Background(), login)
		require.NoError(t, err)
	}

	fetcher.AssertNumberOfCalls(t, "ListRepositories", 1)
	fetcher.AssertNumberOfCalls(t, "ListBranches", 1)
	fetcher.AssertNumberOfCalls(t, "ListCommitsByAuthor", 3)
}
