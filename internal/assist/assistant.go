// Package assist orchestrates one assistant query: context building, input
// enrichment, the backend exchange with at most one tool round, response
// parsing, and the history update.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dashterm/internal/enrich"
	"dashterm/internal/history"
	"dashterm/internal/llm"
	"dashterm/internal/logging"
	"dashterm/internal/mcp"
	"dashterm/internal/prompt"
	"dashterm/internal/reply"
)

// ErrBackendUnavailable indicates no backend is configured at all, as
// opposed to a configured backend failing a request.
var ErrBackendUnavailable = errors.New("assist: no LLM backend configured")

// errNoToolHost is folded into tool-result turns when the backend requests a
// tool although no host is wired.
var errNoToolHost = errors.New("no tool host available")

// ToolHost is the subset of the tool-host client the orchestrator needs.
type ToolHost interface {
	Connected() bool
	Tools() []mcp.ToolSchema
	Resources() []mcp.ResourceSchema
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallResult, error)
}

// ToolResultRecord documents one tool invocation of a query.
type ToolResultRecord struct {
	Tool   string                 `json:"tool"`
	Input  map[string]interface{} `json:"input"`
	Result string                 `json:"result,omitempty"`
	Err    string                 `json:"error,omitempty"`
}

// Outcome is the terminal result of a query, consumed by the dispatcher.
type Outcome struct {
	Success     bool
	Response    string
	ToolResults []ToolResultRecord
	Commands    []string
	Explanation string
	Err         error
}

// Options wires an Assistant.
type Options struct {
	Client   llm.Client
	Host     ToolHost // may be nil
	Enricher *enrich.Enricher
	History  *history.Store
	// Snapshot provides the live dashboard context for the system prompt.
	Snapshot func() prompt.Context
}

// Assistant owns one conversation session.
type Assistant struct {
	client   llm.Client
	host     ToolHost
	enricher *enrich.Enricher
	history  *history.Store
	snapshot func() prompt.Context
	builder  prompt.Builder
}

// New creates an assistant session.
func New(opts Options) *Assistant {
	a := &Assistant{
		client:   opts.Client,
		host:     opts.Host,
		enricher: opts.Enricher,
		history:  opts.History,
		snapshot: opts.Snapshot,
	}
	if a.enricher == nil {
		a.enricher = enrich.New(nil, nil)
	}
	if a.history == nil {
		a.history = history.New(0)
	}
	if a.snapshot == nil {
		a.snapshot = func() prompt.Context { return prompt.Context{} }
	}
	return a
}

// History exposes the session log (for the clear command and tests).
func (a *Assistant) History() *history.Store { return a.history }

// Query runs one user utterance through the pipeline. Only a backend request
// failure is fatal; tool and metadata failures degrade the result instead.
// A failed query leaves the history untouched.
func (a *Assistant) Query(ctx context.Context, input string) *Outcome {
	log := logging.Get(logging.CategoryAssist)
	if a.client == nil {
		return &Outcome{Success: false, Err: ErrBackendUnavailable}
	}

	start := time.Now()
	hostUp := a.host != nil && a.host.Connected()

	// Build context: snapshot, enrichment, tool catalog, system prompt.
	snap := a.snapshot()
	snap.ToolHost = hostUp
	if hostUp {
		snap.Tools, snap.Resources = catalogForPrompt(a.host)
	}
	augmented, metas := a.enricher.Augment(ctx, input)
	if len(metas) > 0 {
		log.Debug("resolved %d entity references", len(metas))
	}

	var tools []llm.ToolDefinition
	if hostUp {
		tools = mapTools(a.host.Tools())
	}
	system := a.builder.Build(snap)

	messages := append(a.history.Snapshot(), llm.TextMessage(llm.RoleUser, augmented))
	req := &llm.Request{System: system, Tools: tools, Messages: messages}

	first, err := a.client.Converse(ctx, req)
	if err != nil {
		log.Error("backend request failed: %v", err)
		return &Outcome{Success: false, Err: err}
	}

	var toolResults []ToolResultRecord
	final := first

	if len(first.ToolCalls) > 0 {
		// One tool round: execute every invocation in reply order, then ask
		// the backend to finalize. A failing call is folded into its result
		// turn and never aborts the siblings.
		messages = append(messages, first.Assistant)
		for _, call := range first.ToolCalls {
			record := ToolResultRecord{Tool: call.Name, Input: call.Input}
			var result *mcp.CallResult
			var callErr error
			if a.host == nil {
				// The backend may request tools it was never offered.
				callErr = &mcp.ToolExecutionError{Tool: call.Name, Err: errNoToolHost}
			} else {
				result, callErr = a.host.CallTool(ctx, call.Name, call.Input)
			}
			if callErr != nil {
				record.Err = callErr.Error()
				messages = append(messages, llm.ToolResultMessage(call.ID, callErr.Error(), true))
			} else {
				record.Result = result.Text()
				messages = append(messages, llm.ToolResultMessage(call.ID, result.Text(), false))
			}
			toolResults = append(toolResults, record)
		}

		req = &llm.Request{System: system, Tools: tools, Messages: messages}
		final, err = a.client.Converse(ctx, req)
		if err != nil {
			log.Error("post-tool backend request failed: %v", err)
			return &Outcome{Success: false, Err: err, ToolResults: toolResults}
		}
		// Exactly one round: if this reply requests tools again, its text is
		// still treated as the final answer. Known limitation.
	}

	response := final.Text()
	parsed := reply.Parse(response)

	// Record the exchange with the pre-augmentation user text.
	a.history.Append(
		llm.TextMessage(llm.RoleUser, input),
		llm.TextMessage(llm.RoleAssistant, response),
	)

	log.Info("query completed in %v: %d tool calls, %d commands",
		time.Since(start), len(toolResults), len(parsed.Commands))

	return &Outcome{
		Success:     true,
		Response:    response,
		ToolResults: toolResults,
		Commands:    parsed.Commands,
		Explanation: parsed.Explanation,
	}
}

// ClearHistory drops the session log.
func (a *Assistant) ClearHistory() {
	a.history.Clear()
}

// mapTools converts the host catalog to the backend tool shape.
func mapTools(schemas []mcp.ToolSchema) []llm.ToolDefinition {
	if len(schemas) == 0 {
		return nil
	}
	defs := make([]llm.ToolDefinition, 0, len(schemas))
	for _, s := range schemas {
		var schema map[string]interface{}
		if len(s.InputSchema) > 0 {
			if err := json.Unmarshal(s.InputSchema, &schema); err != nil {
				schema = nil
			}
		}
		if schema == nil {
			schema = map[string]interface{}{"type": "object"}
		}
		defs = append(defs, llm.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			InputSchema: schema,
		})
	}
	return defs
}

// catalogForPrompt maps the host catalog into prompt rows.
func catalogForPrompt(host ToolHost) ([]prompt.Tool, []prompt.Resource) {
	var tools []prompt.Tool
	for _, t := range host.Tools() {
		tools = append(tools, prompt.Tool{Name: t.Name, Description: t.Description})
	}
	var resources []prompt.Resource
	for _, r := range host.Resources() {
		resources = append(resources, prompt.Resource{URI: r.URI, Description: r.Description})
	}
	return tools, resources
}
