// Package directory provides the fallback entity directory: a keyed store of
// entity objects consulted only when the tool host cannot resolve metadata.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dashterm/internal/logging"
)

// Directory looks up raw entity objects by id. A nil object with a nil error
// means the id is unknown.
type Directory interface {
	GetObject(ctx context.Context, id string) (map[string]interface{}, error)
}

// Config configures the HTTP directory connection.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// HTTPDirectory queries a REST object store (GET /objects/{id}).
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// New creates a directory client from config, or nil when disabled.
func New(cfg Config) *HTTPDirectory {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPDirectory{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// GetObject fetches the raw object for a state id.
func (d *HTTPDirectory) GetObject(ctx context.Context, id string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/objects/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		logging.Get(logging.CategoryEnrich).Debug("directory has no object %s", id)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("lookup %s: status %d: %s", id, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var obj map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return nil, fmt.Errorf("lookup %s: decode: %w", id, err)
	}
	return obj, nil
}
