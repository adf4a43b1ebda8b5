// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-onboarding/internal/config"
	"github.com/naka-gawa/github-onboarding/internal/gateway"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	verbose          bool
	timeout          time.Duration
	maxRateLimitWait time.Duration
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "github-onboarding",
		Short: "A CLI tool to compare when members joined GitHub with their first contribution.",
		Long: `github-onboarding lists the members of a GitHub organization and joins each of them
with the date of their earliest commit contribution, reporting the gap in days.
The access token is read from API_ACCESS_TOKEN or GITHUB_TOKEN (a .env file is honored).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags are available to all commands.
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "Timeout for each API request (overrides GITHUB_TIMEOUT)")
	rootCmd.PersistentFlags().DurationVar(&opts.maxRateLimitWait, "max-rate-limit-wait", 0, "Longest single sleep on a secondary rate limit (0 disables waiting)")

	rootCmd.AddCommand(
		newMembersCmd(opts),
		newFirstCommitCmd(opts),
		newUserCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on any error.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger discards all logs unless verbose is set. Each run gets its own id as prefix.
func (o *rootOptions) newLogger(cmd *cobra.Command) *log.Logger {
	logger := log.New(io.Discard, "", log.LstdFlags)
	if o.verbose {
		logger.SetOutput(cmd.ErrOrStderr())
	}
	logger.SetPrefix(fmt.Sprintf("[%s] ", uuid.NewString()[:8]))
	return logger
}

// loadConfig reads the environment and applies the shared flags on top of it.
// The result is not validated yet; commands apply their own flags first.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	cfg.MaxRateLimitWait = o.maxRateLimitWait
	return cfg, nil
}

// newGateway validates cfg and only then creates the gateway, so that a bad
// configuration never reaches the network.
func newGateway(cfg *config.Config, logger *log.Logger) (*gateway.GitHubGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gw, err := gateway.NewGitHubGateway(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return gw, nil
}
