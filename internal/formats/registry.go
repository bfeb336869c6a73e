package formats

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"pandochost/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Format describes how one output format is produced and delivered
type Format struct {
	Name      string             `yaml:"-" json:"name"`
	Class     models.FormatClass `yaml:"class" json:"class"`
	Extension string             `yaml:"extension" json:"extension"`
}

// formatFile is the on-disk shape of a formats YAML file
type formatFile struct {
	Formats map[string]Format `yaml:"formats"`
}

// Registry holds the static file-class / text-class partition of output formats.
// Formats not in the registry are treated as text-class.
//
// Thread-safe for concurrent access.
type Registry struct {
	formats map[string]Format
	mu      sync.RWMutex
}

// NewRegistry creates a registry and loads the embedded default table
func NewRegistry() (*Registry, error) {
	r := &Registry{
		formats: make(map[string]Format),
	}

	data, err := configFiles.ReadFile("config/formats.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded formats: %w", err)
	}
	if err := r.load(data); err != nil {
		return nil, fmt.Errorf("failed to load embedded formats: %w", err)
	}

	return r, nil
}

// LoadFile merges formats from a YAML file on disk into the registry.
// Entries in the file override embedded entries with the same name.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := r.load(data); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (r *Registry) load(data []byte) error {
	var file formatFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal formats: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, f := range file.Formats {
		name = normalize(name)
		if name == "" {
			return fmt.Errorf("format with empty name")
		}
		switch f.Class {
		case models.FormatClassText, models.FormatClassFile:
		default:
			return fmt.Errorf("format %s: unknown class %q", name, f.Class)
		}
		f.Name = name
		f.Extension = strings.TrimPrefix(strings.TrimSpace(f.Extension), ".")
		if f.Extension == "" {
			f.Extension = name
		}
		r.formats[name] = f
	}

	return nil
}

// Class returns the delivery class of an output format
func (r *Registry) Class(name string) models.FormatClass {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.lookup(name); ok {
		return f.Class
	}
	return models.FormatClassText
}

// Extension returns the file extension (without dot) for a format.
// Unknown formats use their base name as extension.
func (r *Registry) Extension(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.lookup(name); ok {
		return f.Extension
	}
	return baseName(normalize(name))
}

// lookup tries the exact name, then the name with extension modifiers
// ("docx+native_numbering") stripped. Caller holds the lock.
func (r *Registry) lookup(name string) (Format, bool) {
	name = normalize(name)
	if f, ok := r.formats[name]; ok {
		return f, true
	}
	f, ok := r.formats[baseName(name)]
	return f, ok
}

// List returns all registered formats sorted by name
func (r *Registry) List() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Format, 0, len(r.formats))
	for _, f := range r.formats {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func baseName(name string) string {
	if i := strings.IndexAny(name, "+-"); i > 0 {
		return name[:i]
	}
	return name
}
