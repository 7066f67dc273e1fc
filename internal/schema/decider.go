package schema

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Decider chooses whether extra columns are kept.
type Decider interface {
	// Decide returns true to keep the union of all columns, false to keep
	// the base columns only.
	Decide(extras []FileExtras) bool
}

// StaticDecider is a decision made ahead of time.
type StaticDecider bool

// Decide returns the fixed decision.
func (d StaticDecider) Decide([]FileExtras) bool {
	return bool(d)
}

// Prompter asks on a terminal. It prints the extras to Out and reads a
// single line from In. Only "y" or "yes" (any case) keeps the extras;
// anything else, including EOF, discards them.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// Decide prints the warning and question, then reads the answer.
func (p *Prompter) Decide(extras []FileExtras) bool {
	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, "Found different headers across files:")
	for _, extra := range extras {
		fmt.Fprintf(p.Out, "%s: Additional headers: %s\n",
			filepath.Base(extra.Path), strings.Join(extra.Columns, ", "))
	}
	fmt.Fprint(p.Out, "\nWould you like to include these new columns? [y/N]: ")

	answer, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
