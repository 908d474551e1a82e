package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"dashterm/internal/logging"
)

// CommandInfo describes one interpreter command for catalogs and help.
type CommandInfo struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
}

type command struct {
	CommandInfo
	run func(i *Interpreter, args []string) error
}

// Interpreter resolves and executes dashboard commands. Unknown commands are
// reported to the caller, not executed; a command that runs but fails counts
// as recognized.
type Interpreter struct {
	model    *Model
	reporter Reporter
	hotkeys  *Hotkeys

	// clearHistory resets the assistant conversation; wired by the host.
	clearHistory func()

	commands []command
	byName   map[string]*command
}

// NewInterpreter creates an interpreter over a dashboard model.
func NewInterpreter(model *Model, reporter Reporter, hotkeys *Hotkeys) *Interpreter {
	i := &Interpreter{model: model, reporter: reporter, hotkeys: hotkeys}
	i.register()
	return i
}

// SetClearHistory wires the conversation reset hook.
func (i *Interpreter) SetClearHistory(fn func()) { i.clearHistory = fn }

func (i *Interpreter) register() {
	i.commands = []command{
		{
			CommandInfo: CommandInfo{
				Name: "add", Aliases: []string{"a"},
				Usage:       "add -g <group> -n <name> [-t <type>] [-s <state-id>] [-u <unit>] [-min <n>] [-max <n>]",
				Description: "Add a display element to a group, creating the group if needed",
			},
			run: (*Interpreter).cmdAdd,
		},
		{
			CommandInfo: CommandInfo{
				Name: "remove", Aliases: []string{"rm", "del"},
				Usage:       "remove -g <group> [-n <name>]",
				Description: "Remove an element, or a whole group when no name is given",
			},
			run: (*Interpreter).cmdRemove,
		},
		{
			CommandInfo: CommandInfo{
				Name: "list", Aliases: []string{"ls"},
				Usage:       "list [-g <group>]",
				Description: "List groups and their elements",
			},
			run: (*Interpreter).cmdList,
		},
		{
			CommandInfo: CommandInfo{
				Name:        "set",
				Usage:       "set -g <group> -n <name> -v <value>",
				Description: "Set the displayed value of an element",
			},
			run: (*Interpreter).cmdSet,
		},
		{
			CommandInfo: CommandInfo{
				Name:        "theme",
				Usage:       "theme -s <name>",
				Description: "Switch the color theme",
			},
			run: (*Interpreter).cmdTheme,
		},
		{
			CommandInfo: CommandInfo{
				Name:        "hotkey",
				Usage:       "hotkey [-k <key> -f <command-file>]",
				Description: "Bind a hotkey to a command file, or list bindings",
			},
			run: (*Interpreter).cmdHotkey,
		},
		{
			CommandInfo: CommandInfo{
				Name:        "clear",
				Usage:       "clear",
				Description: "Clear the assistant conversation history",
			},
			run: (*Interpreter).cmdClear,
		},
		{
			CommandInfo: CommandInfo{
				Name: "help", Aliases: []string{"?"},
				Usage:       "help",
				Description: "Show available commands",
			},
			run: (*Interpreter).cmdHelp,
		},
	}

	i.byName = make(map[string]*command)
	for idx := range i.commands {
		c := &i.commands[idx]
		i.byName[c.Name] = c
		for _, alias := range c.Aliases {
			i.byName[alias] = c
		}
	}
}

// Submit executes one command. It reports false only when the name is
// unknown; execution errors go to the reporter.
func (i *Interpreter) Submit(name string, args []string) bool {
	c, ok := i.byName[strings.ToLower(name)]
	if !ok {
		return false
	}
	if err := c.run(i, args); err != nil {
		logging.Get(logging.CategoryDashboard).Warn("command %s failed: %v", c.Name, err)
		i.reporter.Error(err.Error())
	}
	return true
}

// Catalog returns the command catalog in registration order.
func (i *Interpreter) Catalog() []CommandInfo {
	out := make([]CommandInfo, len(i.commands))
	for idx, c := range i.commands {
		out[idx] = c.CommandInfo
	}
	return out
}

// GroupSummary is one row of the group catalog for the prompt builder.
type GroupSummary struct {
	Name     string
	Elements int
}

// GroupSummaries returns group names and element counts in insertion order.
func (i *Interpreter) GroupSummaries() []GroupSummary {
	groups := i.model.Groups()
	out := make([]GroupSummary, len(groups))
	for idx, g := range groups {
		out[idx] = GroupSummary{Name: g.Name, Elements: len(g.Elements)}
	}
	return out
}

func (i *Interpreter) cmdAdd(args []string) error {
	flags := parseFlags(args)
	group := flags["g"]
	name := flags["n"]
	if group == "" || name == "" {
		return fmt.Errorf("add requires -g <group> and -n <name>")
	}

	el := Element{
		Name:    name,
		Type:    ElementType(strings.ToLower(flags["t"])),
		StateID: flags["s"],
		Unit:    flags["u"],
	}
	if v, ok := flags["min"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid -min %q", v)
		}
		el.Min = f
	}
	if v, ok := flags["max"]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid -max %q", v)
		}
		el.Max = f
	}
	if el.Type == "" {
		el.Type = TypeText
	}

	if err := i.model.AddElement(group, el); err != nil {
		return err
	}
	i.reporter.Info(fmt.Sprintf("added %s %q to group %q", el.Type, el.Name, group))
	return nil
}

func (i *Interpreter) cmdRemove(args []string) error {
	flags := parseFlags(args)
	group := flags["g"]
	if group == "" {
		return fmt.Errorf("remove requires -g <group>")
	}
	if err := i.model.RemoveElement(group, flags["n"]); err != nil {
		return err
	}
	if name := flags["n"]; name != "" {
		i.reporter.Info(fmt.Sprintf("removed %q from group %q", name, group))
	} else {
		i.reporter.Info(fmt.Sprintf("removed group %q", group))
	}
	return nil
}

func (i *Interpreter) cmdList(args []string) error {
	flags := parseFlags(args)
	only := flags["g"]
	groups := i.model.Groups()
	if len(groups) == 0 {
		i.reporter.Info("dashboard is empty")
		return nil
	}
	shown := 0
	for _, g := range groups {
		if only != "" && !strings.EqualFold(g.Name, only) {
			continue
		}
		shown++
		i.reporter.Info(fmt.Sprintf("%s (%d elements)", g.Name, len(g.Elements)))
		for _, el := range g.Elements {
			line := fmt.Sprintf("  %-12s %s", el.Type, el.Name)
			if el.StateID != "" {
				line += " <- " + el.StateID
			}
			if el.Unit != "" {
				line += " [" + el.Unit + "]"
			}
			if el.Value != "" {
				line += " = " + el.Value
			}
			i.reporter.Info(line)
		}
	}
	if shown == 0 {
		return fmt.Errorf("no group %q", only)
	}
	return nil
}

func (i *Interpreter) cmdSet(args []string) error {
	flags := parseFlags(args)
	group, name := flags["g"], flags["n"]
	value, hasValue := flags["v"]
	if group == "" || name == "" || !hasValue {
		return fmt.Errorf("set requires -g <group>, -n <name> and -v <value>")
	}
	if err := i.model.SetValue(group, name, value); err != nil {
		return err
	}
	i.reporter.Info(fmt.Sprintf("%s.%s = %s", group, name, value))
	return nil
}

func (i *Interpreter) cmdTheme(args []string) error {
	flags := parseFlags(args)
	name := flags["s"]
	if name == "" {
		i.reporter.Info("current theme: " + i.model.Theme())
		return nil
	}
	if err := i.model.SetTheme(name); err != nil {
		return err
	}
	if console, ok := i.reporter.(*ConsoleReporter); ok {
		console.SetTheme(name)
	}
	i.reporter.Info("theme set to " + name)
	return nil
}

func (i *Interpreter) cmdHotkey(args []string) error {
	if i.hotkeys == nil {
		return fmt.Errorf("hotkeys are not configured")
	}
	flags := parseFlags(args)
	key, file := flags["k"], flags["f"]
	if key == "" && file == "" {
		bindings := i.hotkeys.Bindings()
		if len(bindings) == 0 {
			i.reporter.Info("no hotkeys bound")
			return nil
		}
		for _, b := range bindings {
			i.reporter.Info(fmt.Sprintf("%-8s -> %s", b.Key, b.File))
		}
		return nil
	}
	if key == "" || file == "" {
		return fmt.Errorf("hotkey requires both -k <key> and -f <command-file>")
	}
	if err := i.hotkeys.Bind(key, file); err != nil {
		return err
	}
	i.reporter.Info(fmt.Sprintf("bound %s to %s", key, file))
	return nil
}

func (i *Interpreter) cmdClear(args []string) error {
	if i.clearHistory != nil {
		i.clearHistory()
	}
	i.reporter.Info("conversation history cleared")
	return nil
}

func (i *Interpreter) cmdHelp(args []string) error {
	for _, c := range i.commands {
		line := c.Name
		if len(c.Aliases) > 0 {
			line += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		i.reporter.Info(line)
		i.reporter.Info("  " + c.Usage)
		i.reporter.Info("  " + c.Description)
	}
	return nil
}

// parseFlags scans "-flag value" pairs; a flag with no following value (or
// followed by another flag) maps to "".
func parseFlags(args []string) map[string]string {
	flags := make(map[string]string)
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		key := strings.TrimPrefix(arg, "-")
		if idx+1 < len(args) && !looksLikeFlag(args[idx+1]) {
			flags[key] = args[idx+1]
			idx++
		} else {
			flags[key] = ""
		}
	}
	return flags
}

// looksLikeFlag distinguishes "-g" from negative numeric values like "-40".
func looksLikeFlag(s string) bool {
	if !strings.HasPrefix(s, "-") || len(s) < 2 {
		return false
	}
	c := s[1]
	return !(c >= '0' && c <= '9') && c != '.'
}
