package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/xmlzip/internal/adapters/driven/config"
	"github.com/custodia-labs/xmlzip/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const header = "# xmlzip configuration. Change values with 'xmlzip settings set <key> <value>'.\n\n"

// ConfigStore keeps configuration in a TOML file.
// Dotted keys address nested tables: "processor.workers" is workers under [processor].
type ConfigStore struct {
	mu   sync.RWMutex
	path string
	tree map[string]any
}

// NewConfigStore opens the config file in configDir, creating the directory
// if needed. If configDir is empty, defaults to ~/.xmlzip/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".xmlzip")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path: filepath.Join(configDir, "config.toml"),
		tree: make(map[string]any),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a value by dotted key. Tables are not values.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.tree, key)
}

// GetString retrieves a string value.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := config.String(v)
	return str
}

// GetInt retrieves an integer value.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	i, _ := config.Int(v)
	return i
}

// GetFloat retrieves a float value.
// TOML integers are accepted so that "archive_rate = 2" reads as 2.0.
func (s *ConfigStore) GetFloat(key string) float64 {
	v, _ := s.Get(key)
	f, _ := config.Float(v)
	return f
}

// GetBool retrieves a boolean value.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := config.Bool(v)
	return b
}

// Set stores a value and persists immediately.
// If the file cannot be written the previous value is restored.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := lookup(s.tree, key)
	if err := insert(s.tree, key, value); err != nil {
		return err
	}
	if err := s.save(); err != nil {
		if had {
			_ = insert(s.tree, key, prev)
		} else {
			remove(s.tree, key)
		}
		return err
	}
	return nil
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save replaces the file atomically through a temporary file in the same
// directory. Caller must hold the lock.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.tree)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.WriteString(header)
	if err == nil {
		_, err = tmp.Write(data)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the TOML file. A missing file is an empty configuration.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.tree = make(map[string]any)
		return nil
	}
	if err != nil {
		return err
	}

	tree := make(map[string]any)
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	s.tree = tree
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// lookup walks the tables named by the dotted key.
func lookup(tree map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}

	v, ok := node[parts[len(parts)-1]]
	if _, table := v.(map[string]any); table {
		return nil, false
	}
	return v, ok
}

// insert stores value under the dotted key, creating tables on the way.
// A key cannot pass through or replace an existing plain value's table slot.
func insert(tree map[string]any, key string, value any) error {
	parts := strings.Split(key, ".")
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid config key %q", key)
		}
	}

	node := tree
	for i, part := range parts[:len(parts)-1] {
		child, exists := node[part]
		if !exists {
			table := make(map[string]any)
			node[part] = table
			node = table
			continue
		}
		table, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("config key %q: %s is a value, not a table", key, strings.Join(parts[:i+1], "."))
		}
		node = table
	}

	last := parts[len(parts)-1]
	if _, table := node[last].(map[string]any); table {
		return fmt.Errorf("config key %q is a table", key)
	}
	node[last] = value
	return nil
}

// remove deletes the dotted key. Emptied tables are kept.
func remove(tree map[string]any, key string) {
	parts := strings.Split(key, ".")
	node := tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, parts[len(parts)-1])
}
