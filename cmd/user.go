package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-onboarding/internal/domain"
	"github.com/naka-gawa/github-onboarding/internal/report"
	"github.com/naka-gawa/github-onboarding/internal/usecase"
)

func newUserCmd(root *rootOptions) *cobra.Command {
	var org, user, strategyName string

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Describes when a single user onboarded and first contributed",
		Long: `Looks up when a user account was created and the oldest commit they authored in an organization,
and prints both dates together with the gap in days.
The default exhaustive strategy walks every branch of every repository in the organization.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := root.newLogger(cmd)

			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.Strategy = strategyName
			strategy, err := usecase.ParseStrategy(cfg.Strategy)
			if err != nil {
				return err
			}
			githubGateway, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}

			createdAt, err := githubGateway.FetchUserCreatedAt(ctx, user)
			if err != nil {
				return fmt.Errorf("failed to look up user %s: %w", user, err)
			}
			resolver, err := usecase.NewResolver(githubGateway, strategy, org, logger)
			if err != nil {
				return err
			}
			records, err := usecase.NewCorrelator(githubGateway, resolver, 1, logger).
				Join(ctx, []domain.Member{{Login: user, JoinedAt: createdAt}})
			if err != nil {
				return fmt.Errorf("failed to resolve the first contribution of %s: %w", user, err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.Onboarding(records[0], org))
			return err
		},
	}

	userCmd.Flags().StringVarP(&org, "org", "o", "", "Target GitHub organization name (required)")
	userCmd.Flags().StringVarP(&user, "user", "u", "", "Target GitHub user name (required)")
	userCmd.Flags().StringVar(&strategyName, "strategy", string(usecase.StrategyExhaustive), "First contribution lookup (aggregated, search or exhaustive)")
	_ = userCmd.MarkFlagRequired("org")
	_ = userCmd.MarkFlagRequired("user")
	return userCmd
}
