package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/roach88/quirks/internal/harness"
)

// terminalStyle colours status words. Only used when stdout is a terminal.
type terminalStyle struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	detail lipgloss.Style
}

func newTerminalStyle() terminalStyle {
	return terminalStyle{
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		detail: lipgloss.NewStyle().Faint(true),
	}
}

func (s terminalStyle) Pass(text string) string   { return s.pass.Render(text) }
func (s terminalStyle) Fail(text string) string   { return s.fail.Render(text) }
func (s terminalStyle) Detail(text string) string { return s.detail.Render(text) }

// styleFor picks the report style for w. Anything but a terminal gets the
// plain style so redirected output stays byte-exact.
func styleFor(w io.Writer) harness.Styler {
	if isTTYWriter(w) {
		return newTerminalStyle()
	}
	return harness.PlainStyle{}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
