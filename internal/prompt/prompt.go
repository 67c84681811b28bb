// Package prompt supplies the interactive boundary resolver: a synchronous
// yes/no question on the terminal for tags sitting exactly on a box edge.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/boxlabel/internal/domain"
)

// Interactive asks the operator whether to include a boundary-case tag.
// It blocks the assignment pass for that single tag/box pair until an
// answer arrives.
type Interactive struct {
	in  *bufio.Scanner
	out io.Writer
}

// New builds an Interactive resolver reading answers from in (normally
// stdin) and writing questions to out (normally stderr, so prompts survive
// stdout redirection).
func New(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{in: bufio.NewScanner(in), out: out}
}

// Resolve prints the question and reads answers until it gets a clear yes
// or no. Losing the input stream is an error, not a rejection.
func (p *Interactive) Resolve(tag domain.Tag, box *domain.Box) (bool, error) {
	for {
		fmt.Fprintf(p.out, "Include tag %q in box %q? [y/n]: ", tag.String(), box.String())

		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return false, fmt.Errorf("prompt.Interactive.Resolve: %w", err)
			}
			return false, fmt.Errorf("prompt.Interactive.Resolve: input closed")
		}
		switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

var _ domain.BoundaryResolver = (*Interactive)(nil)
