// Package prompt implements synchronous line-based questions on a terminal or pipe.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/evanschultz/checklist/internal/domain"
)

// ReadLine renders one prompt and returns the trimmed response.
// A final unterminated line is returned before io.EOF is reported.
func ReadLine(reader *bufio.Reader, output io.Writer, prompt string) (string, error) {
	if output == nil {
		output = io.Discard
	}
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
		return strings.TrimSpace(line), nil
	case errors.Is(err, io.EOF):
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", io.EOF
		}
		return trimmed, nil
	default:
		return "", fmt.Errorf("read prompt value: %w", err)
	}
}

// ReadRawLine renders one prompt and returns the response with only the line ending removed.
// A final unterminated line is returned before io.EOF is reported.
func ReadRawLine(reader *bufio.Reader, output io.Writer, prompt string) (string, error) {
	if output == nil {
		output = io.Discard
	}
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read prompt value: %w", err)
	}
	if err != nil && line == "" {
		return "", io.EOF
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// YesNo reads a y/n answer with a configurable default.
func YesNo(reader *bufio.Reader, output io.Writer, prompt string, defaultYes bool) (bool, error) {
	if output == nil {
		output = io.Discard
	}
	for {
		value, err := ReadLine(reader, output, prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			_, _ = fmt.Fprintln(output, "please answer y or n")
		}
	}
}

// RemoveConfirmer asks before each removal on a shared line reader.
// Anything other than an explicit yes, including read errors, declines.
type RemoveConfirmer struct {
	reader   *bufio.Reader
	output   io.Writer
	question string
}

// NewRemoveConfirmer constructs a confirmer that shares reader with the caller's command loop.
func NewRemoveConfirmer(reader *bufio.Reader, output io.Writer, question string) *RemoveConfirmer {
	if output == nil {
		output = io.Discard
	}
	question = strings.TrimSpace(question)
	if question == "" {
		question = "Remove this task?"
	}
	return &RemoveConfirmer{
		reader:   reader,
		output:   output,
		question: question,
	}
}

// Confirm asks the question for task and blocks until the user answers.
func (c *RemoveConfirmer) Confirm(task domain.Task) bool {
	if c == nil || c.reader == nil {
		return false
	}
	prompt := fmt.Sprintf("%s %q [y/N]: ", c.question, task.Text)
	ok, err := YesNo(c.reader, c.output, prompt, false)
	if err != nil {
		_, _ = fmt.Fprintln(c.output)
		return false
	}
	return ok
}
