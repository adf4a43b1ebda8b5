package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-onboarding/internal/report"
)

func newFirstCommitCmd(root *rootOptions) *cobra.Command {
	var org, user string

	firstCommitCmd := &cobra.Command{
		Use:   "first-commit",
		Short: "Prints the oldest commit of a user in an organization as JSON",
		Long:  `Searches the commits authored by a user across an organization, sorted by author date, and prints the oldest one.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := root.newLogger(cmd)

			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			githubGateway, err := newGateway(cfg, logger)
			if err != nil {
				return err
			}

			fact, err := githubGateway.SearchFirstCommit(ctx, org, user)
			if err != nil {
				return fmt.Errorf("failed to find the first commit of %s: %w", user, err)
			}
			return report.WriteFirstCommit(cmd.OutOrStdout(), fact)
		},
	}

	firstCommitCmd.Flags().StringVarP(&org, "org", "o", "", "Target GitHub organization name (required)")
	firstCommitCmd.Flags().StringVarP(&user, "user", "u", "", "Target GitHub user name (required)")
	_ = firstCommitCmd.MarkFlagRequired("org")
	_ = firstCommitCmd.MarkFlagRequired("user")
	return firstCommitCmd
}
