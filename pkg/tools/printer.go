package tools

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes user-facing progress and report lines. Colors are applied
// only when enabled, which callers decide from the terminal and NO_COLOR.
type Printer struct {
	out   io.Writer
	quiet bool
	color bool

	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	accent  lipgloss.Style
}

// NewPrinter creates a printer writing to out
func NewPrinter(out io.Writer, color, quiet bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		quiet:   quiet,
		color:   color,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		accent:  r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) render(style lipgloss.Style, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	if p.color {
		text = style.Render(text)
	}
	fmt.Fprintln(p.out, text)
}

// Successf prints a success line
func (p *Printer) Successf(format string, args ...interface{}) {
	p.render(p.success, format, args...)
}

// Warnf prints a warning line
func (p *Printer) Warnf(format string, args ...interface{}) {
	p.render(p.warn, format, args...)
}

// Failf prints a failure line
func (p *Printer) Failf(format string, args ...interface{}) {
	p.render(p.fail, format, args...)
}

// Infof prints an informational line, suppressed in quiet mode
func (p *Printer) Infof(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.render(p.accent, format, args...)
}

// Stepf prints an indented progress line, suppressed in quiet mode
func (p *Printer) Stepf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "  "+format+"\n", args...)
}

// Printf prints an unstyled line
func (p *Printer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
