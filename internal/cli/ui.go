package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// Styles shared by the inspector and command output.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorValue)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
)

// Status markers prefixed to console lines.
const (
	markOK     = "✓"
	markFail   = "✗"
	markWarn   = "!"
	markInfo   = "›"
	markFile   = "→"
	markCached = "cached"
	markFresh  = "fresh"
)

// console writes the human-facing status lines of a command. Logs go
// through the logger; everything a user is meant to read goes here.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) *console {
	if w == nil {
		w = os.Stdout
	}
	return &console{w: w}
}

func (c *console) line(s string) {
	fmt.Fprintln(c.w, s)
}

func (c *console) success(format string, args ...any) {
	c.line(StyleSuccess.Render(markOK) + " " + fmt.Sprintf(format, args...))
}

func (c *console) failure(format string, args ...any) {
	c.line(styleFail.Render(markFail) + " " + fmt.Sprintf(format, args...))
}

func (c *console) warning(format string, args ...any) {
	c.line(StyleWarning.Render(markWarn) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c *console) info(format string, args ...any) {
	c.line(styleLabel.Render(markInfo) + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented, muted line under the previous status.
func (c *console) detail(format string, args ...any) {
	c.line("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints the path of a written artifact.
func (c *console) file(path string) {
	c.line("  " + StyleDim.Render(markFile) + " " + StyleValue.Render(path))
}

func (c *console) keyValue(key, value string) {
	c.line(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// stats prints a compile summary such as "3 components · 9 objects · cached".
// Zero counts are left out.
func (c *console) stats(components, objects int, cached bool) {
	var parts []string
	if components > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d components", components)))
	}
	if objects > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d objects", objects)))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render(markCached))
	} else {
		parts = append(parts, styleLabel.Render(markFresh))
	}
	c.line("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// nextStep suggests a follow-up command.
func (c *console) nextStep(description, cmd string) {
	c.line(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (c *console) blank() {
	c.line("")
}
