// Package golden records and verifies the output of .magic scripts against
// expected golden files.
package golden

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File extensions of scripts and their golden files.
const (
	ScriptExtension   = ".magic"
	ExpectedExtension = ".expected"
)

// DefaultTestDir is where golden tests live unless configured otherwise.
const DefaultTestDir = "test/golden"

// Config holds the magictest settings.
type Config struct {
	TestDir        string
	CellTerminator string
	Verbose        bool
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{TestDir: DefaultTestDir}
}

// ScriptPath returns the script file of a test.
func (c *Config) ScriptPath(testName string) string {
	return filepath.Join(c.TestDir, testName+ScriptExtension)
}

// ExpectedPath returns the golden file of a test.
func (c *Config) ExpectedPath(testName string) string {
	return filepath.Join(c.TestDir, testName+ExpectedExtension)
}

// FindTests lists the test names in the test directory, sorted.
func (c *Config) FindTests() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(c.TestDir, "*"+ScriptExtension))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(match), ScriptExtension))
	}
	sort.Strings(names)
	return names, nil
}

func (c *Config) readExpected(testName string) (string, error) {
	content, err := os.ReadFile(c.ExpectedPath(testName))
	if err != nil {
		return "", fmt.Errorf("failed to read expected file %s: %w", c.ExpectedPath(testName), err)
	}
	return strings.TrimRight(string(content), "\n"), nil
}
