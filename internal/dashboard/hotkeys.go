package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"dashterm/internal/logging"
)

// Binding maps one hotkey to a command file replayed when the key fires.
type Binding struct {
	Key  string `yaml:"key"`
	File string `yaml:"file"`
}

// Hotkeys is the persisted hotkey-to-file mapping. An optional watcher
// reloads the map when the file changes on disk, so edits made outside the
// running process take effect immediately.
type Hotkeys struct {
	mu       sync.Mutex
	path     string
	bindings map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// LoadHotkeys reads the mapping from path; a missing file yields an empty
// map bound to that path.
func LoadHotkeys(path string) (*Hotkeys, error) {
	h := &Hotkeys{path: path, bindings: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("read hotkeys: %w", err)
	}
	if err := h.parse(data); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Hotkeys) parse(data []byte) error {
	var entries []Binding
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse hotkeys %s: %w", h.path, err)
	}
	bindings := make(map[string]string, len(entries))
	for _, b := range entries {
		if b.Key != "" {
			bindings[strings.ToUpper(b.Key)] = b.File
		}
	}
	h.mu.Lock()
	h.bindings = bindings
	h.mu.Unlock()
	return nil
}

// Bind assigns a key to a command file and persists the mapping.
func (h *Hotkeys) Bind(key, file string) error {
	h.mu.Lock()
	h.bindings[strings.ToUpper(key)] = file
	h.mu.Unlock()
	return h.save()
}

// Lookup returns the command file bound to a key.
func (h *Hotkeys) Lookup(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	file, ok := h.bindings[strings.ToUpper(key)]
	return file, ok
}

// Bindings returns the mapping sorted by key.
func (h *Hotkeys) Bindings() []Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Binding, 0, len(h.bindings))
	for k, f := range h.bindings {
		out = append(out, Binding{Key: k, File: f})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

func (h *Hotkeys) save() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create hotkeys dir: %w", err)
	}
	data, err := yaml.Marshal(h.Bindings())
	if err != nil {
		return fmt.Errorf("marshal hotkeys: %w", err)
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return fmt.Errorf("write hotkeys: %w", err)
	}
	return nil
}

// Watch starts reloading the mapping whenever the file changes. Stop with
// Close.
func (h *Hotkeys) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files rather than writing in
	// place, which would drop a watch on the file itself.
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(h.path), err)
	}

	h.watcher = watcher
	h.done = make(chan struct{})
	log := logging.Get(logging.CategoryDashboard)

	go func() {
		defer close(h.done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != h.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(h.path)
				if err != nil {
					log.Warn("hotkeys reload failed: %v", err)
					continue
				}
				if err := h.parse(data); err != nil {
					log.Warn("hotkeys reload failed: %v", err)
					continue
				}
				log.Info("hotkeys reloaded from %s", h.path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("hotkeys watcher: %v", err)
			}
		}
	}()
	return nil
}

// Close stops the watcher if one is running.
func (h *Hotkeys) Close() error {
	if h.watcher == nil {
		return nil
	}
	err := h.watcher.Close()
	<-h.done
	h.watcher = nil
	return err
}
