// Package main provides magictest, which records and verifies golden
// outputs of .magic scripts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"magicshell/cmd/magictest/internal/golden"
	"magicshell/internal/logger"
	"magicshell/internal/version"
)

func main() {
	if err := newRootCommand(golden.NewConfig()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *golden.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "magictest",
		Short: "Golden file testing for magicsh scripts",
		Long: `magictest runs .magic scripts in a fresh session and compares their
output with recorded .expected golden files.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logger.Configure("error", "", true)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&cfg.TestDir, "test-dir", golden.DefaultTestDir, "Test directory")
	flags.StringVar(&cfg.CellTerminator, "cell-terminator", "", "Line that ends a cell body")

	runner := func(cmd *cobra.Command) *golden.Runner {
		return golden.NewRunner(cfg, cmd.OutOrStdout())
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "record <testname>",
			Short: "Record a new test case",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner(cmd).Record(context.Background(), args[0])
			},
		},
		&cobra.Command{
			Use:     "accept <testname>",
			Short:   "Accept current output as golden",
			Aliases: []string{"update"},
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner(cmd).Record(context.Background(), args[0])
			},
		},
		&cobra.Command{
			Use:   "run <testname>",
			Short: "Run a specific test case",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner(cmd).Run(context.Background(), args[0])
			},
		},
		&cobra.Command{
			Use:   "run-all",
			Short: "Run all test cases",
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := runner(cmd).RunAll(context.Background())
				return err
			},
		},
		&cobra.Command{
			Use:   "diff <testname>",
			Short: "Show differences between expected and actual output",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runner(cmd).Diff(context.Background(), args[0], cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List test cases",
			RunE: func(cmd *cobra.Command, _ []string) error {
				tests, err := cfg.FindTests()
				if err != nil {
					return err
				}
				for _, test := range tests {
					fmt.Fprintln(cmd.OutOrStdout(), test)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "magictest (%s)\n", version.GetFormattedVersion())
			},
		},
	)
	return rootCmd
}
