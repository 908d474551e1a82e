package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dashterm/internal/assist"
	"dashterm/internal/dashboard"
	"dashterm/internal/directory"
	"dashterm/internal/dispatch"
	"dashterm/internal/enrich"
	"dashterm/internal/history"
	"dashterm/internal/llm"
	"dashterm/internal/logging"
	"dashterm/internal/mcp"
	"dashterm/internal/prompt"
	"dashterm/internal/shell"
	"dashterm/internal/transcript"
)

// pipeline bundles the wired components of one console session.
type pipeline struct {
	assistant   *assist.Assistant
	sequencer   *dispatch.Sequencer
	interpreter *dashboard.Interpreter
	reporter    *dashboard.ConsoleReporter
	hotkeys     *dashboard.Hotkeys
	host        *mcp.Client
	archive     *transcript.Store
}

// buildPipeline wires the full assistant stack from the loaded config. The
// tool host and archive are optional; a missing API key leaves the LLM client
// nil so queries degrade to a clear error instead of failing at startup.
func buildPipeline(ctx context.Context) (*pipeline, error) {
	log := logging.Get(logging.CategoryBoot)

	settings, err := dashboard.LoadSettings(cfg.UI.SettingsFile)
	if err != nil {
		return nil, err
	}
	if cfg.UI.Theme != "" && cfg.UI.Theme != "default" {
		settings.Theme = cfg.UI.Theme
	}

	hotkeys, err := dashboard.LoadHotkeys(cfg.UI.HotkeysFile)
	if err != nil {
		return nil, err
	}

	model := dashboard.NewModel()
	if err := model.SetTheme(settings.Theme); err != nil {
		log.Warn("ignoring configured theme: %v", err)
	}
	reporter := dashboard.NewConsoleReporter(os.Stdout, model.Theme())
	interp := dashboard.NewInterpreter(model, reporter, hotkeys)

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		client = llm.NewAnthropicClientWithConfig(llm.AnthropicConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.GetLLMTimeout(),
		})
	} else {
		log.Warn("no LLM API key configured; assistant queries will fail")
	}

	host := mcp.NewClient(mcp.ServerConfig{
		Enabled: cfg.ToolHost.Enabled,
		BaseURL: cfg.ToolHost.BaseURL,
		Timeout: cfg.ToolHost.Timeout,
	})
	if host != nil {
		if err := host.Connect(ctx); err != nil {
			log.Warn("tool host unavailable: %v", err)
		} else {
			log.Info("tool host connected: %d tools, %d resources",
				len(host.Tools()), len(host.Resources()))
		}
	}

	dir := directory.New(directory.Config{
		Enabled: cfg.Directory.Enabled,
		BaseURL: cfg.Directory.BaseURL,
		Timeout: cfg.Directory.Timeout,
	})

	// Interface conversions stay conditional so a disabled collaborator is a
	// true nil inside the enricher.
	var enrichHost enrich.ToolHost
	if host != nil {
		enrichHost = host
	}
	var enrichDir enrich.Directory
	if dir != nil {
		enrichDir = dir
	}

	var assistHost assist.ToolHost
	if host != nil {
		assistHost = host
	}

	assistant := assist.New(assist.Options{
		Client:   client,
		Host:     assistHost,
		Enricher: enrich.New(enrichHost, enrichDir),
		History:  history.New(cfg.Assist.MaxHistory),
		Snapshot: func() prompt.Context {
			return snapshotContext(interp, host, dir != nil)
		},
	})
	interp.SetClearHistory(assistant.ClearHistory)

	var archive *transcript.Store
	if cfg.Transcript.Enabled {
		archive, err = transcript.Open(cfg.Transcript.DatabasePath)
		if err != nil {
			log.Warn("transcript archive disabled: %v", err)
		}
	}

	return &pipeline{
		assistant:   assistant,
		sequencer:   dispatch.New(interp, reporter, cfg.GetPace()),
		interpreter: interp,
		reporter:    reporter,
		hotkeys:     hotkeys,
		host:        host,
		archive:     archive,
	}, nil
}

func (p *pipeline) close() {
	if p.archive != nil {
		p.archive.Close()
	}
	p.hotkeys.Close()
}

// snapshotContext maps the live dashboard state into the prompt snapshot.
func snapshotContext(interp *dashboard.Interpreter, host *mcp.Client, haveDirectory bool) prompt.Context {
	hostUp := host.Connected()
	pc := prompt.Context{
		Connected: hostUp || haveDirectory,
		ToolHost:  hostUp,
	}
	for _, g := range interp.GroupSummaries() {
		pc.Groups = append(pc.Groups, prompt.Group{Name: g.Name, Elements: g.Elements})
	}
	for _, c := range interp.Catalog() {
		pc.Commands = append(pc.Commands, prompt.Command{
			Name:        c.Name,
			Aliases:     c.Aliases,
			Usage:       c.Usage,
			Description: c.Description,
		})
	}
	return pc
}

// runConsole is the interactive loop: dashboard commands run directly,
// everything else goes to the assistant.
func runConsole() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	if err := p.hotkeys.Watch(); err != nil {
		logging.Get(logging.CategoryBoot).Warn("hotkey watcher disabled: %v", err)
	}

	p.reporter.Heading(fmt.Sprintf("%s %s", cfg.Name, cfg.Version))
	p.reporter.Info(`Type a dashboard command, a question, or "exit".`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if file, ok := p.hotkeys.Lookup(line); ok {
			p.replayFile(ctx, file)
			continue
		}

		tokens := shell.Tokenize(line)
		if len(tokens) > 0 && p.interpreter.Submit(strings.ToLower(tokens[0]), tokens[1:]) {
			continue
		}

		p.query(ctx, line)
	}
	return scanner.Err()
}

// query runs one assistant exchange end to end.
func (p *pipeline) query(ctx context.Context, input string) {
	out := p.assistant.Query(ctx, input)
	p.sequencer.Run(ctx, out)

	if out.Success && p.archive != nil {
		if _, err := p.archive.Save(input, out.Explanation, out.Commands, len(out.ToolResults)); err != nil {
			logging.Get(logging.CategoryStore).Warn("archive failed: %v", err)
		}
	}
}

// replayFile feeds the lines of a bound command file to the interpreter.
// Blank lines and #-comments are skipped.
func (p *pipeline) replayFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		p.reporter.Error("hotkey file: " + err.Error())
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		if ctx.Err() != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := shell.Tokenize(line)
		if len(tokens) == 0 {
			continue
		}
		name := strings.ToLower(tokens[0])
		if !p.interpreter.Submit(name, tokens[1:]) {
			p.reporter.Error("Unrecognized command: " + name)
		}
	}
}
