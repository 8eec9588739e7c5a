package installer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the user to approve an action before it runs
type Confirmer interface {
	// Confirm returns true when the user approves the prompt
	Confirm(prompt string) (bool, error)
}

// StdinConfirmer reads a yes/no answer from an input stream
type StdinConfirmer struct {
	in  io.Reader
	out io.Writer
}

// NewStdinConfirmer creates a confirmer over the given streams
func NewStdinConfirmer(in io.Reader, out io.Writer) *StdinConfirmer {
	return &StdinConfirmer{in: in, out: out}
}

// Confirm prints the prompt and accepts "y" or "yes" (case-insensitive).
// Anything else, including EOF, counts as a decline.
func (c *StdinConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(c.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// AutoConfirmer approves every prompt, for --yes runs
type AutoConfirmer struct{}

// Confirm always returns true
func (AutoConfirmer) Confirm(string) (bool, error) {
	return true, nil
}
