package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-onboarding/internal/config"
	"github.com/naka-gawa/github-onboarding/internal/report"
	"github.com/naka-gawa/github-onboarding/internal/usecase"
)

type membersOptions struct {
	output      string
	format      string
	strategy    string
	concurrency int
	pageSize    int
	summary     bool
	chart       string
}

func newMembersCmd(root *rootOptions) *cobra.Command {
	opts := &membersOptions{}

	membersCmd := &cobra.Command{
		Use:   "members ORG",
		Short: "Joins every member of an organization with their first contribution",
		Long: `Lists all members of ORG and resolves the earliest commit contribution of each one.
The joined records are written to --output, or to standard output when no file is given.
The output file is only replaced once every member has been resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMembers(cmd, root, opts, args[0])
		},
	}

	membersCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the results to this file instead of standard output")
	membersCmd.Flags().StringVar(&opts.format, "format", config.DefaultFormat, "Output format (json, yaml or table)")
	membersCmd.Flags().StringVar(&opts.strategy, "strategy", config.DefaultStrategy, "First contribution lookup (aggregated, search or exhaustive)")
	membersCmd.Flags().IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Number of members resolved in parallel")
	membersCmd.Flags().IntVar(&opts.pageSize, "page-size", config.DefaultPageSize, "Page size for list requests (overrides GITHUB_PAGE_SIZE)")
	membersCmd.Flags().BoolVar(&opts.summary, "summary", false, "Print gap statistics to standard error")
	membersCmd.Flags().StringVar(&opts.chart, "chart", "", "Also render an HTML bar chart of the gaps to this file")
	return membersCmd
}

func runMembers(cmd *cobra.Command, root *rootOptions, opts *membersOptions, org string) error {
	ctx := cmd.Context()
	logger := root.newLogger(cmd)

	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	cfg.Concurrency = opts.concurrency
	cfg.Strategy = opts.strategy
	cfg.Format = opts.format

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	strategy, err := usecase.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	githubGateway, err := newGateway(cfg, logger)
	if err != nil {
		return err
	}
	resolver, err := usecase.NewResolver(githubGateway, strategy, org, logger)
	if err != nil {
		return err
	}
	correlator := usecase.NewCorrelator(githubGateway, resolver, cfg.Concurrency, logger)

	records, err := correlator.Run(ctx, org)
	if err != nil {
		return fmt.Errorf("failed to resolve members of %s: %w", org, err)
	}

	if opts.output != "" {
		if err := report.WriteFile(opts.output, records, format); err != nil {
			return err
		}
		logger.Printf("Wrote %d records to %s.", len(records), opts.output)
	} else if err := report.Write(cmd.OutOrStdout(), records, format); err != nil {
		return err
	}

	if opts.chart != "" {
		if err := report.WriteChartFile(opts.chart, org, records); err != nil {
			return err
		}
		logger.Printf("Wrote chart to %s.", opts.chart)
	}
	if opts.summary {
		summary, err := report.Summarize(records)
		if err != nil {
			return err
		}
		report.WriteSummary(cmd.ErrOrStderr(), summary)
	}
	return nil
}
