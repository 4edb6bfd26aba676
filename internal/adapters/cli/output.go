package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Colors is what reports need from an output: colouring helpers and the
// streams to print to.
type Colors interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Out() io.Writer
	Err() io.Writer
}

type Output struct {
	out          io.Writer
	err          io.Writer
	enableColors bool

	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	gray   lipgloss.Style
	accent lipgloss.Style
}

func NewOutput() *Output {
	o := NewOutputTo(os.Stdout, os.Stderr)
	o.enableColors = isTerminal()
	return o
}

// NewOutputTo writes to the given streams without colours.
func NewOutputTo(out, err io.Writer) *Output {
	return &Output{
		out:    out,
		err:    err,
		green:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		red:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		gray:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		accent: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a378e6")),
	}
}

func (o *Output) Out() io.Writer {
	return o.out
}

func (o *Output) Err() io.Writer {
	return o.err
}

func (o *Output) paint(style lipgloss.Style, text string) string {
	if !o.enableColors {
		return text
	}
	return style.Render(text)
}

func (o *Output) Green(text string) string {
	return o.paint(o.green, text)
}

func (o *Output) Yellow(text string) string {
	return o.paint(o.yellow, text)
}

func (o *Output) Red(text string) string {
	return o.paint(o.red, text)
}

func (o *Output) Gray(text string) string {
	return o.paint(o.gray, text)
}

func (o *Output) PrintHeader(msg string) {
	fmt.Fprintln(o.out, o.paint(o.accent, msg))
	fmt.Fprintln(o.out)
}

func (o *Output) PrintStep(emoji, msg string, args ...any) {
	fmt.Fprintf(o.out, "  "+msg+"\n", args...)
}

func (o *Output) PrintSuccess(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Green("✓ ")+"%s\n", formatted)
}

func (o *Output) PrintWarning(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Yellow("⚠ ")+"%s\n", formatted)
}

func (o *Output) PrintError(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.err, "  "+o.Red("✗ ")+"%s\n", formatted)
}

func (o *Output) PrintFile(path string) {
	fmt.Fprintf(o.out, "    %s\n", path)
}

func (o *Output) PrintDone(msg string) {
	fmt.Fprintln(o.out, msg)
}

func isTerminal() bool {
	stat, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}
