// Package input expands list arguments that use "-" (read stdin) or "@path"
// (read a file), one value per non-empty line.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Expander expands list values. Stdin is read at most once.
type Expander struct {
	Stdin     io.Reader
	stdinUsed bool
}

// NewExpander reads "-" from os.Stdin.
func NewExpander() *Expander {
	return &Expander{Stdin: os.Stdin}
}

// Expand replaces "-" and "@path" entries with the lines they name. Other
// values pass through unchanged.
func (e *Expander) Expand(values []string) ([]string, error) {
	var out []string
	for _, v := range values {
		switch {
		case v == "-":
			if e.stdinUsed {
				return nil, fmt.Errorf("stdin given more than once")
			}
			e.stdinUsed = true
			lines, err := ReadLines(e.Stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			out = append(out, lines...)

		case strings.HasPrefix(v, "@") && len(v) > 1:
			path := v[1:]
			f, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			lines, err := ReadLines(f)
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			out = append(out, lines...)

		default:
			out = append(out, v)
		}
	}
	return out, nil
}

// ReadLines returns the trimmed non-empty lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
