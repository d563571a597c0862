package questions

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/traitforge/disc-engine/internal/models"
)

// catalogFile is the on-disk YAML shape of a question catalog.
type catalogFile struct {
	Name      string            `yaml:"name"`
	Questions []models.Question `yaml:"questions"`
}

// LoadFromDir loads the first valid YAML catalog found in dir, falling back
// to the built-in set when dir is empty, missing, or holds no valid catalog.
func LoadFromDir(dir string) *Catalog {
	if dir == "" {
		return Default()
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	for _, file := range files {
		catalog, err := LoadFromFile(file)
		if err != nil {
			slog.Warn("failed to load question catalog", "file", file, "error", err)
			continue
		}
		slog.Info("question catalog loaded", "file", file, "questions", catalog.Len())
		return catalog
	}

	slog.Info("no catalog files found, using built-in question set", "dir", dir)
	return Default()
}

// LoadFromFile parses and validates a single YAML catalog file.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	catalog, err := NewCatalog(cf.Questions)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %q: %w", cf.Name, err)
	}
	return catalog, nil
}
