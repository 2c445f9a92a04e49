// Package reporter provides output formatters for lint results.
//
// The text formatter is adapted from BuildKit's linter output format,
// trimmed of its TUI-styling stack (Lip Gloss/Chroma/termenv have no
// UdonSharp-domain component to exercise beyond a CLI's own stdout) and
// instead uses go-isatty for the same NO_COLOR-respecting auto-detection,
// grounded on the teacher's go.mod inclusion of that library.
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/project-sakanah/udonsharp-linter/internal/rules"
)

// ANSI escape sequences for severity-appropriate coloring. No external
// styling library is pulled in for this; see the package doc.
const (
	ansiReset   = "\x1b[0m"
	ansiBold    = "\x1b[1m"
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiGray    = "\x1b[90m"
	ansiUnderln = "\x1b[4m"
)

// useColors reports whether stdout is a terminal and NO_COLOR is unset,
// mirroring the teacher's termenv-based auto-detection without the
// dependency.
func useColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// severityColor maps a Severity to its ANSI color code.
func severityColor(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return ansiRed
	case rules.SeverityWarning:
		return ansiYellow
	case rules.SeverityInformation:
		return ansiBlue
	case rules.SeverityHidden:
		return ansiGray
	default:
		return ansiYellow
	}
}

func style(code, s string) string {
	return code + s + ansiReset
}

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:      nil, // auto-detect
		ShowSource: true,
	}
}

// TextReporter formats violations as styled text output.
type TextReporter struct {
	opts TextOptions
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	return &TextReporter{opts: opts}
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	return useColors()
}

// Print writes violations to the writer.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	sorted := make([]rules.Violation, len(violations))
	copy(sorted, violations)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Location.File != sorted[j].Location.File {
			return sorted[i].Location.File < sorted[j].Location.File
		}
		return sorted[i].Location.Start.Line < sorted[j].Location.Start.Line
	})

	for _, v := range sorted {
		if err := r.printViolation(w, v, sources[v.Location.File]); err != nil {
			return err
		}
	}
	return nil
}

// printViolation formats a single violation.
func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte) error {
	colorEnabled := r.colorEnabled()
	sevLabel := strings.ToUpper(v.Severity.String())

	var header string
	if colorEnabled {
		header = fmt.Sprintf("\n%s %s",
			style(ansiBold+severityColor(v.Severity), sevLabel+":"),
			style(ansiBold+ansiRed, v.RuleCode))
		if v.DocURL != "" {
			header += " - " + style(ansiBlue+ansiUnderln, v.DocURL)
		}
	} else {
		header = fmt.Sprintf("\n%s: %s", sevLabel, v.RuleCode)
		if v.DocURL != "" {
			header += " - " + v.DocURL
		}
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, v.Message)

	if r.opts.ShowSource && !v.Location.IsFileLevel() && len(source) > 0 {
		r.printSource(w, v.Location, source, colorEnabled)
	}

	return nil
}

// printSource renders the source code snippet around a violation.
func (r *TextReporter) printSource(w io.Writer, loc rules.Location, source []byte, colorEnabled bool) {
	lines := strings.Split(string(source), "\n")

	start := loc.Start.Line
	end := loc.End.Line
	if loc.IsPointLocation() || end < start {
		end = start
	}

	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}

	pad := 2
	if end == start {
		pad = 4
	}

	displayStart := start
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	fmt.Fprintln(w)
	if colorEnabled {
		fmt.Fprintln(w, style(ansiBold, fmt.Sprintf("%s:%d", loc.File, displayStart)))
		fmt.Fprintln(w, style(ansiGray, "────────────────────"))
	} else {
		fmt.Fprintf(w, "%s:%d\n", loc.File, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	for i := start; i <= end; i++ {
		isAffected := lineInRange(i, loc.Start.Line, loc.End.Line)
		lineContent := strings.TrimSuffix(lines[i-1], "\r")

		var lineNum string
		if colorEnabled {
			lineNum = style(ansiGray, fmt.Sprintf(" %3d │", i))
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		var marker string
		if isAffected {
			if colorEnabled {
				marker = style(ansiBold+ansiRed, ">>>")
			} else {
				marker = ">>>"
			}
		} else {
			marker = "   "
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, lineContent)
	}

	if colorEnabled {
		fmt.Fprintln(w, style(ansiGray, "────────────────────"))
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// PrintText is a convenience function that uses default options.
func PrintText(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	r := NewTextReporter(DefaultTextOptions())
	return r.Print(w, violations, sources)
}

// PrintTextPlain writes violations without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	noColor := false
	opts := TextOptions{Color: &noColor, ShowSource: true}
	r := NewTextReporter(opts)
	return r.Print(w, violations, sources)
}

// lineInRange checks if a 1-based line number is within the range [start, end].
func lineInRange(line, start, end int) bool {
	if end < start {
		end = start
	}
	return line >= start && line <= end
}
