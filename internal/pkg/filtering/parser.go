package filtering

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// fileLock serializes writes to filter files
	fileLock sync.Mutex
)

// ToConfig converts the set into its YAML/JSON form, sections in ascending
// mask order.
func (s *FilterSet) ToConfig() *FilterConfig {
	config := &FilterConfig{Sections: make([]*SectionYAML, 0)}
	for t, c := range s.categories {
		if c == nil || c.Len() == 0 || !s.registry.IsRegistered(uint8(t)) {
			continue
		}
		section := &SectionYAML{
			Name:    s.registry.Name(uint8(t)),
			Filters: make([]*FilterYAML, 0, c.Len()),
		}
		for _, e := range c.exprs {
			section.Filters = append(section.Filters, &FilterYAML{
				Pattern:  e.Orig(),
				MinLevel: e.MinLevel(),
				MaxLevel: e.MaxLevel(),
			})
		}
		config.Sections = append(config.Sections, section)
	}
	return config
}

// ApplyConfig adds every filter in config to the set, skipping sections for
// unknown types. It returns one error per rejected filter.
func (s *FilterSet) ApplyConfig(config *FilterConfig) []error {
	var errs []error
	for _, section := range config.Sections {
		t := s.registry.Type(section.Name)
		if t == UnknownType {
			errs = append(errs, &ValidationError{Field: "name", Message: fmt.Sprintf("unknown filter type: %s", section.Name)})
			continue
		}
		for _, f := range section.Filters {
			if f.Pattern == "" {
				errs = append(errs, &ValidationError{Field: "pattern", Message: "filter pattern is required"})
				continue
			}
			if !s.AddRangeFilter(t, f.Pattern, f.MinLevel, f.MaxLevel) {
				errs = append(errs, fmt.Errorf("filter %q in %s: duplicate or invalid pattern", f.Pattern, section.Name))
			}
		}
	}
	return errs
}

// Export writes the set to path as YAML
func (s *FilterSet) Export(path string) error {
	data, err := yaml.Marshal(s.ToConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal filters to YAML: %w", err)
	}
	return writeFile(path, data)
}

// Import reads a YAML filter file and adds its filters to the set. A missing
// file is not an error. Rejected filters are returned individually.
func (s *FilterSet) Import(path string) ([]error, error) {
	// #nosec G304 -- Path is supplied by the operator
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read filter file: %w", err)
	}

	var config FilterConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse filter YAML: %w", err)
	}

	return s.ApplyConfig(&config), nil
}

// writeFile writes data to path through a temp file and rename
func writeFile(path string, data []byte) error {
	fileLock.Lock()
	defer fileLock.Unlock()

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create filter directory: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp filter file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile) // Cleanup temp file on error
		return fmt.Errorf("failed to rename temp filter file: %w", err)
	}

	return nil
}
