// Package prompts holds the LLM prompt templates compiled into the binary.
// Each JSON file maps a prompt key to its template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// Prompt files
const (
	ParsingFile    = "parsing.json"
	GenerationFile = "generation.json"
)

//go:embed *.json
var promptFiles embed.FS

// catalog is every embedded file decoded once, keyed by file name.
type catalog map[string]map[string]string

var loadCatalog = sync.OnceValues(func() (catalog, error) {
	return decodeAll(promptFiles)
})

func decodeAll(fsys fs.FS) (catalog, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	out := make(catalog, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		entries := map[string]string{}
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		out[name] = entries
	}
	return out, nil
}

func (c catalog) lookup(filename, key string) (string, error) {
	entries, ok := c[filename]
	if !ok {
		return "", fmt.Errorf("unknown prompt file %s", filename)
	}
	text, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// Get returns the template stored under key in filename.
func Get(filename, key string) (string, error) {
	c, err := loadCatalog()
	if err != nil {
		return "", err
	}
	return c.lookup(filename, key)
}

// MustGet is Get for prompts the binary cannot run without.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return text
}

// Render looks up a template and fills it with data.
func Render(filename, key string, data map[string]string) string {
	return Format(MustGet(filename, key), data)
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass. Placeholders that appear inside substituted values are left alone,
// so user text cannot inject template keys. Unknown placeholders remain.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for _, k := range sortedKeys(data) {
		pairs = append(pairs, "{{."+k+"}}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the prompt keys of a file in sorted order.
func List(filename string) ([]string, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	entries, ok := c[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}
	return sortedKeys(entries), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
