package console

import (
	"fmt"
	"io"
	"strings"
)

// Script is a Prompter that replays a fixed list of answers and records
// everything said to it. It is the test double for Terminal.
type Script struct {
	answers []string
	next    int
	out     strings.Builder
}

// NewScript creates a Script that will answer prompts in order.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

// Ask returns the next scripted answer, or io.EOF when exhausted.
func (s *Script) Ask(prompt string) (string, error) {
	fmt.Fprint(&s.out, prompt)
	if s.next >= len(s.answers) {
		return "", io.EOF
	}
	answer := s.answers[s.next]
	s.next++
	return strings.TrimSpace(answer), nil
}

// AskSecret behaves like Ask; scripts have nothing to hide.
func (s *Script) AskSecret(prompt string) (string, error) {
	return s.Ask(prompt)
}

// Say records the output line.
func (s *Script) Say(format string, args ...any) {
	fmt.Fprintf(&s.out, format+"\n", args...)
}

// Output returns everything printed through the script so far.
func (s *Script) Output() string {
	return s.out.String()
}

// Remaining returns the number of unconsumed answers.
func (s *Script) Remaining() int {
	return len(s.answers) - s.next
}
