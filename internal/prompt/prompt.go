package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reads interactive selections from the user.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// Creates a prompter reading selections from in and writing menus to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Asks for an image reference until a non-empty one is entered.
func (p *Prompter) ImageName() (string, error) {
	for {
		fmt.Fprint(p.out, "Image to package (name[:tag]): ")
		line, err := p.read()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		fmt.Fprintln(p.out, "An image name is required.")
	}
}

// Presents the numbered architecture menu and returns the selection.
//
// An empty line selects the first entry; anything that is not a number in
// range re-prompts.
func (p *Prompter) Architecture(archs []string) (string, error) {
	fmt.Fprintln(p.out, "Select target architecture:")
	for i, arch := range archs {
		if i == 0 {
			fmt.Fprintf(p.out, "  %d. %s (default)\n", i+1, arch)
			continue
		}
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, arch)
	}

	for {
		fmt.Fprint(p.out, "Choice: ")
		line, err := p.read()
		if err != nil {
			return "", err
		}
		if line == "" {
			return archs[0], nil
		}
		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(archs) {
			return archs[n-1], nil
		}
		fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(archs))
	}
}

// Presents the mirror menu and returns the selected endpoint, or an empty
// string for a direct pull.
//
// "N" and an empty line both decline the mirror. With no mirrors configured
// the menu is skipped entirely.
func (p *Prompter) Mirror(mirrors []string) (string, error) {
	if len(mirrors) == 0 {
		return "", nil
	}

	fmt.Fprintln(p.out, "Available registry mirrors:")
	for i, m := range mirrors {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, m)
	}
	fmt.Fprintln(p.out, "  N. Pull directly from the upstream registry")

	for {
		fmt.Fprint(p.out, "Choice: ")
		line, err := p.read()
		if err != nil {
			return "", err
		}
		if line == "" || strings.EqualFold(line, "n") {
			return "", nil
		}
		if n, convErr := strconv.Atoi(line); convErr == nil && n >= 1 && n <= len(mirrors) {
			return mirrors[n-1], nil
		}
		fmt.Fprintf(p.out, "Enter a number between 1 and %d, or N for a direct pull.\n", len(mirrors))
	}
}

// Returns the next input line with surrounding whitespace removed.
func (p *Prompter) read() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInputClosed, err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}
