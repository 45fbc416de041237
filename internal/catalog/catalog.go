// Package catalog loads and validates the static module catalog.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"astrocadet/internal/models"
)

// ErrInvalidCatalog is wrapped by every validation failure
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is a validated, read-only set of modules
type Catalog struct {
	modules []models.Module
	byID    map[int]*models.Module
}

// Load reads the catalog from an http(s) URL or a file path
func Load(ctx context.Context, source string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog from %s: %w", source, err)
	}

	return Parse(data)
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc models.Catalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc.Modules)
}

// New validates modules and builds a catalog from them
func New(modules []models.Module) (*Catalog, error) {
	if len(modules) == 0 {
		return nil, fmt.Errorf("%w: no modules", ErrInvalidCatalog)
	}

	c := &Catalog{
		modules: make([]models.Module, len(modules)),
		byID:    make(map[int]*models.Module, len(modules)),
	}
	copy(c.modules, modules)

	for i := range c.modules {
		module := &c.modules[i]
		if err := validateModule(module); err != nil {
			return nil, err
		}
		if _, exists := c.byID[module.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate module id %d", ErrInvalidCatalog, module.ID)
		}
		c.byID[module.ID] = module
	}

	return c, nil
}

// Modules returns the modules in catalog order
func (c *Catalog) Modules() []models.Module {
	out := make([]models.Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Module looks up a module by id
func (c *Catalog) Module(id int) (models.Module, bool) {
	module, ok := c.byID[id]
	if !ok {
		return models.Module{}, false
	}
	return *module, true
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func validateModule(m *models.Module) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: module %d (%q): %s", ErrInvalidCatalog, m.ID, m.Title, fmt.Sprintf(format, args...))
	}

	if m.ID <= 0 {
		return invalid("id must be positive")
	}
	if strings.TrimSpace(m.Title) == "" {
		return invalid("title is required")
	}

	level := m.SortLevel
	if len(level.Boxes) == 0 {
		return invalid("sort_level.boxes is empty")
	}
	seen := make(map[string]bool, len(level.Boxes))
	for _, box := range level.Boxes {
		if box == "" {
			return invalid("sort_level.boxes contains an empty label")
		}
		if seen[box] {
			return invalid("sort_level.boxes contains %q twice", box)
		}
		seen[box] = true
	}
	if len(level.Words) == 0 {
		return invalid("sort_level.words is empty")
	}
	for i, word := range level.Words {
		if word.Text == "" {
			return invalid("sort_level.words[%d].text is required", i)
		}
		if !seen[word.Box] {
			return invalid("sort_level.words[%d] (%q) uses unknown box %q", i, word.Text, word.Box)
		}
	}

	burst := m.BurstLevel
	if strings.TrimSpace(burst.Topic) == "" {
		return invalid("burst_level.topic is required")
	}
	if len(burst.Correct) == 0 {
		return invalid("burst_level.correct is empty")
	}
	if len(burst.Wrong) == 0 {
		return invalid("burst_level.wrong is empty")
	}

	return nil
}
