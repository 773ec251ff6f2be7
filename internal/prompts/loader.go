// Package prompts stores the generation templates as JSON files embedded at
// compile time. Each mode owns one file; keys select the template fragment
// or option-variant wording.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a template fragment by file name and key.
func Get(filename, key string) (string, error) {
	fragments, err := loadFile(filename)
	if err != nil {
		return "", err
	}
	fragment, ok := fragments[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return fragment, nil
}

// Format replaces {{.Key}} placeholders with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}

func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if fragments, ok := cache[filename]; ok {
		cacheMu.RUnlock()
		return fragments, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("prompt file %s not found: %w", filename, err)
	}
	var fragments map[string]string
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("prompt file %s is malformed: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = fragments
	cacheMu.Unlock()
	return fragments, nil
}
