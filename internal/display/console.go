package display

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Console prints styled progress lines for the CLI
type Console struct {
	out   io.Writer
	quiet bool
}

// NewConsole writes to w; nil means stderr. Quiet suppresses everything but errors.
func NewConsole(w io.Writer, quiet bool) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{out: w, quiet: quiet}
}

func (c *Console) Step(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintln(c.out, stepStyle.Render(fmt.Sprintf(format, args...)))
	}
}

func (c *Console) Success(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintln(c.out, successStyle.Render(fmt.Sprintf(format, args...)))
	}
}

func (c *Console) Warn(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Fprintln(c.out, warnStyle.Render(fmt.Sprintf(format, args...)))
	}
}

func (c *Console) Error(format string, args ...interface{}) {
	fmt.Fprintln(c.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}
