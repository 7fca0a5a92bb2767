package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/vibework/vibework/internal/query"
	"github.com/vibework/vibework/internal/workspace"
)

// FallbackKey names the palette entry used for unknown departments.
const FallbackKey = "default"

var colorNames = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

// Palette maps department names to badge colors. It is immutable once
// built; lookups are case-insensitive.
type Palette struct {
	colors   map[string]color.Attribute
	fallback color.Attribute
}

// NewPalette builds a palette from department -> color name pairs. Unknown
// color names are an error. A missing fallback entry defaults to white.
func NewPalette(entries map[string]string) (Palette, error) {
	p := Palette{
		colors:   make(map[string]color.Attribute, len(entries)),
		fallback: color.FgWhite,
	}
	for dept, name := range entries {
		attr, ok := colorNames[strings.ToLower(name)]
		if !ok {
			return Palette{}, fmt.Errorf("department %q: unknown color %q", dept, name)
		}
		if strings.EqualFold(dept, FallbackKey) {
			p.fallback = attr
			continue
		}
		p.colors[strings.ToLower(dept)] = attr
	}
	return p, nil
}

// Color returns the badge color for a department.
func (p Palette) Color(department string) color.Attribute {
	if attr, ok := p.colors[strings.ToLower(department)]; ok {
		return attr
	}
	return p.fallback
}

// DepartmentBadge renders a department name as a colored badge. An empty
// name renders as nothing.
func (p *Printer) DepartmentBadge(pal Palette, department string) string {
	if department == "" {
		return ""
	}
	return p.paint("["+department+"]", pal.Color(department))
}

var glyphs = map[query.ActionKind]struct {
	symbol string
	attr   color.Attribute
}{
	query.ActionCreate: {"+", color.FgGreen},
	query.ActionEdit:   {"~", color.FgBlue},
	query.ActionDelete: {"-", color.FgRed},
	query.ActionFailed: {"!", color.FgRed},
	query.ActionView:   {"·", color.FgHiBlack},
}

// Glyph returns the symbol shown in front of an activity entry.
func (p *Printer) Glyph(kind query.ActionKind) string {
	g, ok := glyphs[kind]
	if !ok {
		g = glyphs[query.ActionView]
	}
	return p.paint(g.symbol, g.attr)
}

// UserStatusBadge renders a user's account status.
func (p *Printer) UserStatusBadge(status string) string {
	if !p.useColors {
		return fmt.Sprintf("[%s]", status)
	}

	switch status {
	case workspace.StatusActive:
		return p.paint("● "+status, color.FgGreen)
	case workspace.StatusSuspended:
		return p.paint("● "+status, color.FgRed)
	case workspace.StatusPending:
		return p.paint("● "+status, color.FgYellow)
	default:
		return p.paint("○ "+status, color.FgWhite)
	}
}

// Outcome renders an activity's success flag.
func (p *Printer) Outcome(success *bool) string {
	switch {
	case success == nil:
		return p.Dim("unknown")
	case *success:
		return p.paint("success", color.FgGreen)
	default:
		return p.paint("failed", color.FgRed)
	}
}
