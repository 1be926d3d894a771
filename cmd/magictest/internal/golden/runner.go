package golden

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"magicshell/internal/output"
	"magicshell/internal/shell"
)

// ErrMismatch is returned when a test's output differs from its golden file.
var ErrMismatch = errors.New("output doesn't match expected")

// Runner executes golden tests in-process.
type Runner struct {
	config     *Config
	normalizer *Normalizer
	report     *output.Printer
	detail     *output.Printer
}

// NewRunner creates a runner reporting progress to out.
func NewRunner(config *Config, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		config:     config,
		normalizer: NewNormalizer(),
		report:     output.NewPrinter(output.WithWriter(out), output.PlainText()),
		detail:     output.NewPrinter(output.WithWriter(out), output.PlainText(), output.WithPrefix("    ")),
	}
}

// Execute runs a test's script in a fresh session and returns its
// normalized output. Failing lines are part of the output.
func (r *Runner) Execute(ctx context.Context, testName string) (string, error) {
	f, err := os.Open(r.config.ScriptPath(testName))
	if err != nil {
		return "", fmt.Errorf("test script not found: %w", err)
	}
	defer f.Close()

	buf := output.NewCaptureBuffer()
	h, err := shell.NewHandler(shell.Options{
		Printer:        output.NewPrinter(output.WithWriter(buf), output.TestMode()),
		CellTerminator: r.config.CellTerminator,
	})
	if err != nil {
		return "", err
	}
	if err := h.Run(ctx, shell.NewScriptReader(f)); err != nil {
		return "", err
	}
	return r.normalizer.Normalize(buf.String()), nil
}

// Record runs a test and stores its output as the golden file.
func (r *Runner) Record(ctx context.Context, testName string) error {
	actual, err := r.Execute(ctx, testName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.config.ExpectedPath(testName), []byte(actual+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write expected file: %w", err)
	}
	r.logf("Recorded expected output for test: %s\n", testName)
	return nil
}

// Run runs a test and compares it with its golden file.
func (r *Runner) Run(ctx context.Context, testName string) error {
	_, _, err := r.compare(ctx, testName)
	if err != nil {
		return err
	}
	r.logf("Test passed: %s\n", testName)
	return nil
}

// compare returns the golden and actual output of a test, and ErrMismatch
// when they differ.
func (r *Runner) compare(ctx context.Context, testName string) (string, string, error) {
	actual, err := r.Execute(ctx, testName)
	if err != nil {
		return "", "", err
	}
	expected, err := r.config.readExpected(testName)
	if err != nil {
		return "", "", err
	}
	if !r.normalizer.Equal(expected, actual) {
		return expected, actual, fmt.Errorf("%s: %w", testName, ErrMismatch)
	}
	return expected, actual, nil
}

// Summary reports the outcome of RunAll.
type Summary struct {
	Passed []string
	Failed []string
}

// RunAll runs every test in the test directory.
func (r *Runner) RunAll(ctx context.Context) (*Summary, error) {
	tests, err := r.config.FindTests()
	if err != nil {
		return nil, fmt.Errorf("failed to find tests: %w", err)
	}

	summary := &Summary{}
	for _, test := range tests {
		expected, actual, err := r.compare(ctx, test)
		if err != nil {
			summary.Failed = append(summary.Failed, test)
			r.report.Printf("FAIL %s: %v\n", test, err)
			if r.config.Verbose && errors.Is(err, ErrMismatch) {
				for _, line := range strings.Split(strings.TrimSuffix(LineDiff(expected, actual), "\n"), "\n") {
					r.detail.Println(line)
				}
			}
			continue
		}
		summary.Passed = append(summary.Passed, test)
		r.report.Printf("PASS %s\n", test)
	}
	r.report.Printf("\nResults: %d passed, %d failed\n", len(summary.Passed), len(summary.Failed))

	if len(summary.Failed) > 0 {
		return summary, fmt.Errorf("tests failed: %v", summary.Failed)
	}
	return summary, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.config.Verbose {
		r.report.Printf(format, args...)
	}
}
