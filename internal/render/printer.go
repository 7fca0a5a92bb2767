// Package render provides terminal output for the vibework commands
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors based on environment (default)
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// ParseColorMode parses a string into a ColorMode
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors based on mode and environment
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default: // ColorAuto
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return configColors
	}
}

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing to out and errOut. Nil writers
// default to stdout and stderr.
func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// Out returns the writer used for regular output.
func (p *Printer) Out() io.Writer {
	return p.out
}

// UseColors reports whether escape sequences are emitted.
func (p *Printer) UseColors() bool {
	return p.useColors
}

// paint renders text with attrs. Color is enabled explicitly so that
// --color=always works when stdout is not a terminal.
func (p *Printer) paint(text string, attrs ...color.Attribute) string {
	if !p.useColors || len(attrs) == 0 {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// Print prints a plain message
func (p *Printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	underline := strings.Repeat("-", len([]rune(title)))
	if p.useColors {
		underline = strings.Repeat("─", len([]rune(title)))
	}
	fmt.Fprintf(p.out, "%s\n%s\n", p.paint(title, color.FgWhite, color.Bold), p.paint(underline, color.FgWhite))
}

// Field prints an aligned "Label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%-14s %s\n", label+":", value)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		fmt.Fprintln(p.out, p.paint("✓ "+msg, color.FgGreen))
		return
	}
	fmt.Fprintln(p.out, "[OK] "+msg)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		fmt.Fprintln(p.err, p.paint("⚠ "+msg, color.FgYellow))
		return
	}
	fmt.Fprintln(p.err, "[WARN] "+msg)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		fmt.Fprintln(p.err, p.paint("✗ "+msg, color.FgRed))
		return
	}
	fmt.Fprintln(p.err, "[ERROR] "+msg)
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string {
	return p.paint(text, color.Bold)
}

// Dim returns dimmed text
func (p *Printer) Dim(text string) string {
	return p.paint(text, color.Faint)
}
