// Package catalog holds the mock datasets the dashboard sections display
// and the gateway searches over.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/enfoco/enfoco/internal/carousel"
)

//go:embed fixtures/sections.yml
var defaultSections []byte

// Section is one searchable dataset.
type Section struct {
	Key     string           `yaml:"key" json:"key"`
	Label   string           `yaml:"label" json:"label"`
	Kind    carousel.Kind    `yaml:"kind" json:"kind"`
	Records []map[string]any `yaml:"records" json:"records"`
}

// Catalog indexes sections by key, preserving file order.
type Catalog struct {
	sections []*Section
	byKey    map[string]*Section
}

type catalogFile struct {
	Sections []*Section `yaml:"sections"`
}

// Default returns the catalog built from the embedded fixtures.
func Default() (*Catalog, error) {
	return Parse(defaultSections)
}

// LoadFile reads a catalog from a YAML file with the same layout as the
// embedded fixtures.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c := &Catalog{byKey: make(map[string]*Section, len(f.Sections))}
	for _, s := range f.Sections {
		if s.Key == "" {
			return nil, fmt.Errorf("catalog section without key")
		}
		if _, dup := c.byKey[s.Key]; dup {
			return nil, fmt.Errorf("duplicate catalog section %q", s.Key)
		}
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("section %q: invalid kind %q", s.Key, s.Kind)
		}
		if s.Label == "" {
			s.Label = s.Key
		}
		c.sections = append(c.sections, s)
		c.byKey[s.Key] = s
	}
	return c, nil
}

// Section returns the section with the given key.
func (c *Catalog) Section(key string) (*Section, bool) {
	s, ok := c.byKey[key]
	return s, ok
}

// Sections returns all sections in file order.
func (c *Catalog) Sections() []*Section {
	return append([]*Section(nil), c.sections...)
}

// Dataset returns a copy of the section's record slice. Records themselves
// are shared and must be treated as read-only.
func (s *Section) Dataset() []map[string]any {
	return append([]map[string]any(nil), s.Records...)
}

// Find returns the record in the section whose id equals id.
func (s *Section) Find(id int) (map[string]any, bool) {
	for _, r := range s.Records {
		if n, ok := r["id"].(int); ok && n == id {
			return r, true
		}
	}
	return nil, false
}

// BookContext returns the description used as chat context for a book.
func (c *Catalog) BookContext(id int) (string, bool) {
	books, ok := c.Section("books")
	if !ok {
		return "", false
	}
	book, ok := books.Find(id)
	if !ok {
		return "", false
	}
	desc, _ := book["desc"].(string)
	return desc, true
}
