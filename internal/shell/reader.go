package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"magicshell/internal/logger"
)

// ScriptReader reads lines from a script, tracking the line number.
type ScriptReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewScriptReader reads lines from r.
func NewScriptReader(r io.Reader) *ScriptReader {
	return &ScriptReader{scanner: bufio.NewScanner(r)}
}

// ReadLine implements LineReader.
func (s *ScriptReader) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	s.line++
	return s.scanner.Text(), nil
}

// Line returns the number of the last line read.
func (s *ScriptReader) Line() int { return s.line }

// RunScript executes the script at path. Unlike Run it stops at the first
// failing line.
func (h *Handler) RunScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return h.RunBatch(ctx, NewScriptReader(f), path)
}

// RunBatch executes every line from r, stopping at the first failure.
// name identifies the input in error messages.
func (h *Handler) RunBatch(ctx context.Context, r *ScriptReader, name string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		start := r.Line()
		if err := h.ProcessLine(ctx, raw, r); err != nil {
			return fmt.Errorf("%s:%d: %w", name, start, err)
		}
	}
}

// interactiveReader adapts a readline instance to LineReader.
type interactiveReader struct {
	rl     *readline.Instance
	prompt string
}

func (r *interactiveReader) ReadLine() (string, error) {
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return "", io.EOF
			}
			continue
		}
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed == "exit" || trimmed == "quit" {
			return "", io.EOF
		}
		return line, nil
	}
}

// SetPrompt switches the prompt; an empty prompt restores the main one.
func (r *interactiveReader) SetPrompt(prompt string) {
	if prompt == "" {
		prompt = r.prompt
	}
	r.rl.SetPrompt(prompt)
}

// Interactive runs the read-eval-print loop on the terminal until EOF,
// Ctrl-C on an empty line, or "exit".
func (h *Handler) Interactive(ctx context.Context, prompt, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		HistoryLimit:    1000,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	logger.Debug("Interactive session started", "history", historyFile)
	return h.Run(ctx, &interactiveReader{rl: rl, prompt: prompt})
}
