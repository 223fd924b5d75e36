package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// located is implemented by errors that know their source position.
type located interface {
	error
	Location() string
}

// Diagnostics renders errors and headers for a terminal or a plain stream.
type Diagnostics struct {
	out      io.Writer
	color    bool
	errLabel lipgloss.Style
	location lipgloss.Style
	header   lipgloss.Style
}

// NewDiagnostics creates a renderer writing to w. Styling is applied only when
// color is true.
func NewDiagnostics(w io.Writer, color bool) *Diagnostics {
	r := lipgloss.NewRenderer(w)
	return &Diagnostics{
		out:      w,
		color:    color,
		errLabel: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		location: r.NewStyle().Bold(true),
		header:   r.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
	}
}

func (d *Diagnostics) style(s lipgloss.Style, text string) string {
	if !d.color {
		return text
	}
	return s.Render(text)
}

// RenderError formats err as "file:line:col: error: message". Errors without
// a position render as "error: message".
func (d *Diagnostics) RenderError(err error) string {
	label := d.style(d.errLabel, "error:")

	var le located
	if errors.As(err, &le) {
		// Wrapping context stays; only the location moves to the front.
		loc := le.Location()
		msg := strings.Replace(err.Error(), loc+": ", "", 1)
		return fmt.Sprintf("%s %s %s", d.style(d.location, loc+":"), label, msg)
	}
	return fmt.Sprintf("%s %v", label, err)
}

// Error writes the rendered error on its own line.
func (d *Diagnostics) Error(err error) {
	fmt.Fprintln(d.out, d.RenderError(err))
}

// Header renders the "==> name <==" banner printed between files.
func (d *Diagnostics) Header(name string) string {
	return d.style(d.header, "==> "+name+" <==")
}

// ColorEnabled decides whether output to the file descriptor fd should be
// colored.
func ColorEnabled(cfg *Config, noColor bool, fd uintptr) bool {
	if noColor || (cfg != nil && !cfg.Output.Color) {
		return false
	}
	return IsTerminal(fd)
}
