// Package prompt reads answers from the user: free text, hidden secrets,
// numbered choices and yes/no confirmations. On a terminal a fuzzy-filter
// picker is also available (see Pick).
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/mmcdole/recraft/internal/domain"
	"github.com/mmcdole/recraft/internal/ui"
)

// Prompter asks questions on out and reads answers from in
type Prompter struct {
	rawIn  io.Reader
	in     *bufio.Reader
	out    io.Writer
	termFd int // -1 when in is not a terminal
}

// New creates a prompter. Hidden input and the picker are only used when in
// is a terminal.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		rawIn:  in,
		in:     bufio.NewReader(in),
		out:    out,
		termFd: -1,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.termFd = int(f.Fd())
	}
	return p
}

// Interactive reports whether input comes from a terminal
func (p *Prompter) Interactive() bool {
	return p.termFd >= 0
}

// Line asks for a non-empty line of text
func (p *Prompter) Line(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", ui.AccentStyle.Render(label))
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// Secret asks for a value without echoing it
func (p *Prompter) Secret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	if p.termFd < 0 {
		return p.readLine()
	}

	secret, err := term.ReadPassword(p.termFd)
	fmt.Fprintln(p.out) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// Choose asks for a number between 1 and count and returns its zero-based
// index. Invalid answers are reported and asked again.
func (p *Prompter) Choose(label string, count int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", ui.AccentStyle.Render(label))
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, ui.Error("Please enter a valid number."))
			continue
		}
		if n < 1 || n > count {
			fmt.Fprintln(p.out, ui.Error("Invalid choice. Please try again."))
			continue
		}
		return n - 1, nil
	}
}

// Confirm asks a yes/no question. The default answer is no.
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Pick runs the fuzzy picker over items on the terminal
func (p *Prompter) Pick(title string, items []string) (string, error) {
	if !p.Interactive() {
		return "", fmt.Errorf("picker needs a terminal")
	}
	return Pick(title, items, p.rawIn, p.out)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", domain.ErrAborted
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
