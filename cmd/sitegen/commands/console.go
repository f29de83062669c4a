package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
)

// Console prints user-facing status lines prefixed with a colored tag.
type Console struct {
	out  io.Writer
	info lipgloss.Style
	done lipgloss.Style
	err  lipgloss.Style
}

// NewConsole returns a Console writing to w. Colors are dropped when w is
// not a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		out:  w,
		info: r.NewStyle().Foreground(colorYellow),
		done: r.NewStyle().Foreground(colorGreen),
		err:  r.NewStyle().Foreground(colorRed),
	}
}

func (c *Console) Info(msg string)  { c.line(c.info, "INFO", msg) }
func (c *Console) Done(msg string)  { c.line(c.done, "DONE", msg) }
func (c *Console) Error(msg string) { c.line(c.err, "ERROR", msg) }

// DoneAll prints every message as a DONE line.
func (c *Console) DoneAll(msgs []string) {
	for _, m := range msgs {
		c.Done(m)
	}
}

// Plain writes msg followed by a newline without any tag.
func (c *Console) Plain(msg string) {
	_, _ = fmt.Fprintln(c.out, msg)
}

func (c *Console) line(style lipgloss.Style, tag, msg string) {
	_, _ = fmt.Fprintf(c.out, "[%s]\t%s\n", style.Render(tag), msg)
}
