// Package registry is the process-wide lookup of loaded simulation
// documents. It is an explicit instance threaded through call sites; there
// is deliberately no package-level singleton.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"decisim-mcp/internal/document"
	"decisim-mcp/internal/validate"
)

// Registry stores simulation documents by name and resolves inheritance.
type Registry struct {
	docs map[string]*document.Document
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{docs: make(map[string]*document.Document)}
}

// Register adds a document after validating it. Invalid documents and
// duplicate names are rejected.
func (r *Registry) Register(doc *document.Document) error {
	res := validate.ValidateDocument(doc)
	if !res.Valid {
		return fmt.Errorf("document %q is invalid: %s", doc.Name, strings.Join(res.Errors, "; "))
	}
	if _, exists := r.docs[doc.Name]; exists {
		return fmt.Errorf("document %q is already registered", doc.Name)
	}
	r.docs[doc.Name] = doc
	return nil
}

// LoadDir loads every document file in dir, non-recursively. Files that fail
// to parse or validate are logged and skipped so one broken document does
// not block the rest of the catalog. Returns the number of documents loaded.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read simulations directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml", ".json":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := document.LoadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unparsable simulation document")
			continue
		}
		if err := r.Register(doc); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping invalid simulation document")
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Get returns the document registered under name with its inheritance chain
// resolved. The returned document is a copy; callers may rewrite it freely.
func (r *Registry) Get(name string) (*document.Document, error) {
	return r.resolve(name, map[string]bool{})
}

// List returns all registered documents sorted by name, unresolved.
func (r *Registry) List() []*document.Document {
	docs := make([]*document.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs
}

func (r *Registry) resolve(name string, visiting map[string]bool) (*document.Document, error) {
	if visiting[name] {
		return nil, fmt.Errorf("inheritance cycle through document %q", name)
	}
	doc, ok := r.docs[name]
	if !ok {
		return nil, fmt.Errorf("unknown simulation %q", name)
	}
	if doc.Extends == "" {
		return doc.Clone(), nil
	}

	visiting[name] = true
	base, err := r.resolve(doc.Extends, visiting)
	if err != nil {
		return nil, fmt.Errorf("resolve base of %q: %w", name, err)
	}
	delete(visiting, name)

	return merge(base, doc), nil
}

// merge overlays a child document onto its resolved base: scalar fields come
// from the child, child parameters replace base parameters with the same key,
// and logic, outputs and groups fall back to the base when the child omits
// them. Child slices are cloned so the merged document never aliases the
// registered child.
func merge(base, child *document.Document) *document.Document {
	merged := base
	merged.Name = child.Name
	merged.Category = child.Category
	merged.Description = child.Description
	merged.Version = child.Version
	merged.Tags = append([]string(nil), child.Tags...)
	merged.Extends = ""

	for _, p := range child.Parameters {
		p.Options = append([]string(nil), p.Options...)
		replaced := false
		for i, existing := range merged.Parameters {
			if existing.Key == p.Key {
				merged.Parameters[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged.Parameters = append(merged.Parameters, p)
		}
	}
	if child.Simulation.Logic != "" {
		merged.Simulation.Logic = child.Simulation.Logic
	}
	if len(child.Outputs) > 0 {
		merged.Outputs = append([]document.OutputDefinition(nil), child.Outputs...)
	}
	if len(child.Groups) > 0 {
		merged.Groups = make([]document.ParameterGroup, len(child.Groups))
		for i, g := range child.Groups {
			g.Parameters = append([]string(nil), g.Parameters...)
			merged.Groups[i] = g
		}
	}
	return merged
}
