// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/github-onboarding/internal/domain"
	"github.com/naka-gawa/github-onboarding/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Correlator is the use case for joining organization members with their first contribution.
// It orchestrates the member listing and the per-member lookups.
type Correlator struct {
	fetcher     gateway.Fetcher
	resolver    Resolver
	concurrency int
	logger      *log.Logger
}

// NewCorrelator creates a new Correlator instance.
// A concurrency below 2 resolves members strictly one after another.
func NewCorrelator(fetcher gateway.Fetcher, resolver Resolver, concurrency int, logger *log.Logger) *Correlator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Correlator{
		fetcher:     fetcher,
		resolver:    resolver,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run lists every member of org and joins each one with its first contribution.
func (c *Correlator) Run(ctx context.Context, org string) ([]domain.JoinedRecord, error) {
	c.logger.Println("Usecase: Starting member correlation...")

	members, err := c.fetcher.FetchMembers(ctx, org)
	if err != nil {
		return nil, err
	}
	return c.Join(ctx, members)
}

// Join resolves every member exactly once and returns the records in member order.
// The first resolver error aborts the whole run and no partial result is returned.
func (c *Correlator) Join(ctx context.Context, members []domain.Member) ([]domain.JoinedRecord, error) {
	records := make([]domain.JoinedRecord, len(members))

	// Each goroutine owns exactly one index of records.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.concurrency)

	for i, m := range members {
		if egCtx.Err() != nil {
			break
		}
		i, m := i, m
		eg.Go(func() error {
			// A slot may free up only after another lookup has already failed.
			if err := egCtx.Err(); err != nil {
				return err
			}
			c.logger.Printf("  [%d/%d] Resolving first contribution of %s...", i+1, len(members), m.Login)
			fact, err := c.resolver.Resolve(egCtx, m.Login)
			if err != nil {
				return err
			}
			records[i] = domain.NewJoinedRecord(m, fact)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.logger.Printf("Usecase: Correlation of %d members complete.", len(records))
	return records, nil
}
