package dashboard

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Reporter receives user-visible output from the interpreter and sequencer.
type Reporter interface {
	Info(msg string)
	Error(msg string)
}

// theme holds the lipgloss styles of one color scheme.
type themeStyles struct {
	info  lipgloss.Style
	err   lipgloss.Style
	label lipgloss.Style
}

var themes = map[string]themeStyles{
	"default": {
		info:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	},
	"matrix": {
		info:  lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	},
	"mono": {
		info:  lipgloss.NewStyle(),
		err:   lipgloss.NewStyle().Bold(true),
		label: lipgloss.NewStyle().Bold(true),
	},
}

// ConsoleReporter renders messages to a terminal writer.
type ConsoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles themeStyles
}

// NewConsoleReporter creates a reporter writing to out with the named theme.
func NewConsoleReporter(out io.Writer, theme string) *ConsoleReporter {
	styles, ok := themes[theme]
	if !ok {
		styles = themes["default"]
	}
	return &ConsoleReporter{out: out, styles: styles}
}

// SetTheme switches the reporter's styles; unknown names are ignored.
func (r *ConsoleReporter) SetTheme(theme string) {
	if styles, ok := themes[theme]; ok {
		r.mu.Lock()
		r.styles = styles
		r.mu.Unlock()
	}
}

// Info prints an informational line.
func (r *ConsoleReporter) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.info.Render(msg))
}

// Error prints an error line.
func (r *ConsoleReporter) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.err.Render("error: "+msg))
}

// Heading prints a highlighted label line (group names, section headers).
func (r *ConsoleReporter) Heading(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.label.Render(msg))
}
