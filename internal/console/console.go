// Package console abstracts the line-oriented terminal dialogue so the
// interactive flows can be driven by a scripted answer source in tests.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter is the question/answer capability every interactive flow
// depends on.
type Prompter interface {
	// Ask prints the prompt and returns one trimmed line of input.
	Ask(prompt string) (string, error)

	// AskSecret prints the prompt and reads one line without echo.
	AskSecret(prompt string) (string, error)

	// Say writes a formatted line of output to the operator.
	Say(format string, args ...any)
}

// Terminal is a Prompter backed by stdin/stdout.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Prompter reading from stdin and writing to stdout.
func NewTerminal() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// Ask prints the prompt and returns the next input line, trimmed.
func (t *Terminal) Ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret reads a line without echoing it back, falling back to a
// normal read when stdin is not a terminal (pipes, tests).
func (t *Terminal) AskSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return t.Ask(prompt)
	}

	fmt.Fprint(t.out, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// Say writes one formatted line to the terminal.
func (t *Terminal) Say(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Confirm asks a yes/no question and returns true only on a "y" answer.
func Confirm(p Prompter, prompt string) bool {
	answer, err := p.Ask(prompt + " (y/n): ")
	if err != nil {
		return false
	}
	return strings.ToLower(answer) == "y"
}

// AskDefault asks a question and substitutes fallback for an empty answer.
func AskDefault(p Prompter, prompt, fallback string) string {
	answer, err := p.Ask(prompt)
	if err != nil || answer == "" {
		return fallback
	}
	return answer
}
