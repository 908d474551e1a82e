// Package enrich detects entity-reference tokens in user input and resolves
// each one to live state metadata, preferring the tool host and falling back
// to the entity directory.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"dashterm/internal/logging"
)

// refPattern matches state ids of the shape segment.integer.segment with any
// number of trailing segments, e.g. modbus.2.holdingRegisters.temp.
var refPattern = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9_-]*\.\d+\.[a-zA-Z0-9_-]+(?:\.[a-zA-Z0-9_-]+)*\b`)

// Metadata source tags.
const (
	SourceEnhanced = "enhanced" // resolved via the tool host
	SourceDirect   = "direct"   // resolved via the entity directory
)

// ErrNoBackend indicates neither the tool host nor the entity directory was
// reachable for a lookup. It fails a single reference, never a whole query.
var ErrNoBackend = errors.New("enrich: no metadata backend available")

// Metadata is the normalized lookup result for one entity reference.
// Produced fresh per query, never persisted.
type Metadata struct {
	StateID string
	Exists  bool
	Source  string

	Type  string
	Role  string
	Unit  string
	Min   *float64
	Max   *float64
	Write *bool
	Name  string
	Desc  string

	Err string // non-empty when resolution failed
}

// ToolHost is the subset of the tool-host client used for metadata lookups.
type ToolHost interface {
	Connected() bool
	GetObject(ctx context.Context, id string) (map[string]interface{}, bool, error)
}

// Directory is the fallback object store.
type Directory interface {
	GetObject(ctx context.Context, id string) (map[string]interface{}, error)
}

// Enricher resolves entity references against the available backends.
type Enricher struct {
	host ToolHost
	dir  Directory
}

// New creates an enricher. Either collaborator may be nil.
func New(host ToolHost, dir Directory) *Enricher {
	return &Enricher{host: host, dir: dir}
}

// ExtractReferences returns the entity references in text in occurrence
// order. Duplicates are kept; each occurrence is resolved independently.
func ExtractReferences(text string) []string {
	return refPattern.FindAllString(text, -1)
}

// Resolve looks up one reference. The tool host wins when it confirms
// existence; otherwise the directory is consulted. Returns ErrNoBackend when
// neither collaborator could be asked.
func (e *Enricher) Resolve(ctx context.Context, ref string) (Metadata, error) {
	log := logging.Get(logging.CategoryEnrich)
	asked := false
	var hostErr error

	if e.host != nil && e.host.Connected() {
		asked = true
		obj, exists, err := e.host.GetObject(ctx, ref)
		if err != nil {
			hostErr = err
			log.Warn("tool host lookup for %s failed: %v", ref, err)
		} else if exists {
			return normalize(ref, obj, SourceEnhanced, true), nil
		}
	}

	if e.dir != nil {
		asked = true
		obj, err := e.dir.GetObject(ctx, ref)
		if err != nil {
			log.Warn("directory lookup for %s failed: %v", ref, err)
			return Metadata{StateID: ref, Err: err.Error()}, fmt.Errorf("resolve %s: %w", ref, err)
		}
		return normalize(ref, obj, SourceDirect, obj != nil), nil
	}

	if !asked {
		return Metadata{StateID: ref, Err: ErrNoBackend.Error()}, ErrNoBackend
	}
	if hostErr != nil {
		// Host failed and no fallback exists; the failure must be recorded,
		// not rendered as a miss.
		return Metadata{StateID: ref, Err: hostErr.Error()}, fmt.Errorf("resolve %s: %w", ref, hostErr)
	}
	// Tool host was asked but found nothing and no fallback exists.
	return Metadata{StateID: ref, Source: SourceEnhanced}, nil
}

// Augment resolves every reference in input and, when at least one reference
// was found, appends a state-metadata block to the input text. Resolution is
// sequential so the block order matches occurrence order. Per-reference
// failures are recorded inline and never fail the call.
func (e *Enricher) Augment(ctx context.Context, input string) (string, []Metadata) {
	refs := ExtractReferences(input)
	if len(refs) == 0 {
		return input, nil
	}

	results := make([]Metadata, 0, len(refs))
	for _, ref := range refs {
		meta, err := e.Resolve(ctx, ref)
		if err != nil {
			meta.StateID = ref
			if meta.Err == "" {
				meta.Err = err.Error()
			}
		}
		results = append(results, meta)
	}

	var b strings.Builder
	b.WriteString(input)
	b.WriteString("\n\nState metadata found:\n")
	for _, m := range results {
		b.WriteString("- ")
		b.WriteString(m.describe())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), results
}

// describe renders one metadata line for the augmented input block.
func (m Metadata) describe() string {
	if m.Err != "" {
		return fmt.Sprintf("%s: lookup failed (%s)", m.StateID, m.Err)
	}
	if !m.Exists {
		return fmt.Sprintf("%s: not found", m.StateID)
	}

	var attrs []string
	if m.Type != "" {
		attrs = append(attrs, m.Type)
	}
	if m.Role != "" {
		attrs = append(attrs, m.Role)
	}
	if m.Unit != "" {
		attrs = append(attrs, "unit "+m.Unit)
	}
	if m.Min != nil && m.Max != nil {
		attrs = append(attrs, fmt.Sprintf("range %g..%g", *m.Min, *m.Max))
	}
	if m.Write != nil {
		if *m.Write {
			attrs = append(attrs, "writable")
		} else {
			attrs = append(attrs, "read-only")
		}
	}

	line := m.StateID
	if m.Name != "" {
		line += ": " + m.Name
	}
	if len(attrs) > 0 {
		line += " (" + strings.Join(attrs, ", ") + ")"
	}
	if m.Desc != "" {
		line += " - " + m.Desc
	}
	return fmt.Sprintf("%s [%s]", line, m.Source)
}

// normalize maps a raw object (with an ioBroker-style "common" section) to
// Metadata.
func normalize(ref string, obj map[string]interface{}, source string, exists bool) Metadata {
	meta := Metadata{StateID: ref, Exists: exists, Source: source}
	if !exists || obj == nil {
		return meta
	}

	common, _ := obj["common"].(map[string]interface{})
	if common == nil {
		common = obj
	}
	if v, ok := common["name"].(string); ok {
		meta.Name = v
	}
	if v, ok := common["desc"].(string); ok {
		meta.Desc = v
	}
	if v, ok := common["type"].(string); ok {
		meta.Type = v
	}
	if v, ok := common["role"].(string); ok {
		meta.Role = v
	}
	if v, ok := common["unit"].(string); ok {
		meta.Unit = v
	}
	if v, ok := toFloat(common["min"]); ok {
		meta.Min = &v
	}
	if v, ok := toFloat(common["max"]); ok {
		meta.Max = &v
	}
	if v, ok := common["write"].(bool); ok {
		meta.Write = &v
	}
	return meta
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
