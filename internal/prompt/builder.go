// Package prompt renders the assistant system prompt from a snapshot of live
// dashboard context. Rendering is pure: the same snapshot always produces
// byte-identical output, and missing optional context degrades to
// "unavailable" rather than failing.
package prompt

import (
	"fmt"
	"strings"
)

// Command describes one interpreter command for the prompt.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
}

// Group describes one dashboard group for the prompt.
type Group struct {
	Name     string
	Elements int
}

// Tool describes one tool-host tool for the prompt.
type Tool struct {
	Name        string
	Description string
}

// Resource describes one tool-host resource for the prompt.
type Resource struct {
	URI         string
	Description string
}

// Context is the snapshot the system prompt is rendered from.
type Context struct {
	Connected bool // live connection to the state backend
	ToolHost  bool // tool host reachable

	Groups    []Group
	Commands  []Command
	Tools     []Tool
	Resources []Resource
}

// elementTypes is the fixed dashboard element taxonomy, rendered verbatim so
// the backend knows which -t values commands accept.
var elementTypes = []struct {
	name string
	desc string
}{
	{"gauge", "radial dial for a numeric value within a min/max range"},
	{"switch", "on/off control bound to a writable boolean state"},
	{"button", "one-shot trigger that sends a value when pressed"},
	{"indicator", "read-only boolean lamp (ok/alarm)"},
	{"text", "free-form string display"},
	{"number", "numeric readout with optional unit"},
	{"sparkline", "compact trend graph of recent numeric history"},
}

// Builder renders system prompts.
type Builder struct{}

// Build renders the system prompt for a context snapshot.
func (Builder) Build(ctx Context) string {
	var b strings.Builder

	b.WriteString("You are the assistant built into a terminal dashboard application.\n")
	b.WriteString("The user drives the dashboard with short commands; you translate free-form\n")
	b.WriteString("requests into an explanation and, when action is needed, concrete commands.\n\n")

	b.WriteString("Connection: ")
	if ctx.Connected {
		b.WriteString("state backend connected\n")
	} else {
		b.WriteString("state backend unavailable\n")
	}
	b.WriteString("Tool host: ")
	if ctx.ToolHost {
		b.WriteString("available\n")
	} else {
		b.WriteString("unavailable\n")
	}
	b.WriteString("\n")

	b.WriteString("Dashboard groups:\n")
	if len(ctx.Groups) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, g := range ctx.Groups {
		fmt.Fprintf(&b, "  - %s (%d elements)\n", g.Name, g.Elements)
	}
	b.WriteString("\n")

	b.WriteString("Available commands:\n")
	if len(ctx.Commands) == 0 {
		b.WriteString("  (unavailable)\n")
	}
	for _, c := range ctx.Commands {
		fmt.Fprintf(&b, "  %s", c.Name)
		if len(c.Aliases) > 0 {
			fmt.Fprintf(&b, " (aliases: %s)", strings.Join(c.Aliases, ", "))
		}
		b.WriteString("\n")
		if c.Usage != "" {
			fmt.Fprintf(&b, "    usage: %s\n", c.Usage)
		}
		if c.Description != "" {
			fmt.Fprintf(&b, "    %s\n", c.Description)
		}
	}
	b.WriteString("\n")

	b.WriteString("Element types:\n")
	for _, et := range elementTypes {
		fmt.Fprintf(&b, "  - %s: %s\n", et.name, et.desc)
	}
	b.WriteString("\n")

	if ctx.ToolHost {
		b.WriteString("Tool host catalog:\n")
		if len(ctx.Tools) == 0 && len(ctx.Resources) == 0 {
			b.WriteString("  (empty)\n")
		}
		for _, t := range ctx.Tools {
			fmt.Fprintf(&b, "  tool %s", t.Name)
			if t.Description != "" {
				fmt.Fprintf(&b, ": %s", t.Description)
			}
			b.WriteString("\n")
		}
		for _, r := range ctx.Resources {
			fmt.Fprintf(&b, "  resource %s", r.URI)
			if r.Description != "" {
				fmt.Fprintf(&b, ": %s", r.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("When the user asks for changes, reply with a short explanation followed by\n")
	b.WriteString("a line reading \"Commands to run:\" and one \"- <command>\" bullet per command,\n")
	b.WriteString("in execution order. Quote arguments containing spaces. If no command is\n")
	b.WriteString("needed, answer with the explanation alone.")

	return b.String()
}
