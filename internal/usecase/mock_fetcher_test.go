package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchMembers(ctx context.Context, org string) ([]domain.Member, error) {
	args := m.Called(ctx, org)
	// We need to handle the case where the returned slice is nil (e.g., when an error occurs).
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *mockFetcher) FetchUserCreatedAt(ctx context.Context, login string) (time.Time, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockFetcher) FetchEarliestContribution(ctx context.Context, login string) (domain.ContributionFact, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(domain.ContributionFact), args.Error(1)
}

func (m *mockFetcher) SearchFirstCommit(ctx context.Context, org, login string) (domain.ContributionFact, error) {
	args := m.Called(ctx, org, login)
	return args.Get(0).(domain.ContributionFact), args.Error(1)
}

func (m *mockFetcher) ListRepositories(ctx context.Context, org string) ([]string, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) ListBranches(ctx context.Context, org, repo string) ([]string, error) {
	args := m.Called(ctx, org, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) ListCommitsByAuthor(ctx context.Context, org, repo, branch, login string) ([]domain.Commit, error) {
	args := m.Called(ctx, org, repo, branch, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(n int) *int {
	return &n
}
