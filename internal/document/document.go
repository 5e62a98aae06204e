// Package document defines the declarative simulation model and its loader.
package document

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ParameterType enumerates the supported input variable types.
type ParameterType string

const (
	TypeNumber  ParameterType = "number"
	TypeBoolean ParameterType = "boolean"
	TypeString  ParameterType = "string"
	TypeSelect  ParameterType = "select"
)

// KnownType reports whether t is one of the supported parameter types.
func KnownType(t ParameterType) bool {
	switch t {
	case TypeNumber, TypeBoolean, TypeString, TypeSelect:
		return true
	}
	return false
}

// ParameterDefinition describes one simulation input variable. The key doubles
// as the formula binding name, so it must be a valid identifier.
type ParameterDefinition struct {
	Key     string        `yaml:"key" json:"key"`
	Label   string        `yaml:"label" json:"label"`
	Type    ParameterType `yaml:"type" json:"type"`
	Default any           `yaml:"default" json:"default"`
	Min     *float64      `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64      `yaml:"max,omitempty" json:"max,omitempty"`
	Step    *float64      `yaml:"step,omitempty" json:"step,omitempty"`
	Options []string      `yaml:"options,omitempty" json:"options,omitempty"`
}

// ParameterGroup is a named, ordered subset of parameter keys. Groups carry
// presentation intent only; the engine ignores them.
type ParameterGroup struct {
	Name       string   `yaml:"name" json:"name"`
	Label      string   `yaml:"label,omitempty" json:"label,omitempty"`
	Parameters []string `yaml:"parameters" json:"parameters"`
}

// OutputDefinition names one entry the formula's returned table must contain.
type OutputDefinition struct {
	Key         string `yaml:"key" json:"key"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Simulation holds the executable part of a document.
type Simulation struct {
	Logic string `yaml:"logic,omitempty" json:"logic,omitempty"`
}

// Document is the full declarative model of one business decision. It is
// constructed once at load time and treated as immutable afterwards; anything
// that needs to rewrite it (inheritance, business-context enrichment) works
// on a clone.
type Document struct {
	Name        string                `yaml:"name" json:"name"`
	Category    string                `yaml:"category" json:"category"`
	Description string                `yaml:"description" json:"description"`
	Version     string                `yaml:"version" json:"version"`
	Tags        []string              `yaml:"tags" json:"tags"`
	Parameters  []ParameterDefinition `yaml:"parameters" json:"parameters"`
	Groups      []ParameterGroup      `yaml:"groups,omitempty" json:"groups,omitempty"`
	Outputs     []OutputDefinition    `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Simulation  Simulation            `yaml:"simulation,omitempty" json:"simulation,omitempty"`
	Extends     string                `yaml:"extends,omitempty" json:"extends,omitempty"`
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether key can serve as a formula binding name.
func ValidIdentifier(key string) bool {
	return identifierPattern.MatchString(key)
}

// Parameter returns the definition for key, if any.
func (d *Document) Parameter(key string) (ParameterDefinition, bool) {
	for _, p := range d.Parameters {
		if p.Key == key {
			return p, true
		}
	}
	return ParameterDefinition{}, false
}

// OutputKeys returns the declared output keys in document order.
func (d *Document) OutputKeys() []string {
	keys := make([]string, 0, len(d.Outputs))
	for _, o := range d.Outputs {
		keys = append(keys, o.Key)
	}
	return keys
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := *d
	c.Tags = append([]string(nil), d.Tags...)
	c.Parameters = make([]ParameterDefinition, len(d.Parameters))
	for i, p := range d.Parameters {
		p.Options = append([]string(nil), p.Options...)
		c.Parameters[i] = p
	}
	c.Groups = make([]ParameterGroup, len(d.Groups))
	for i, g := range d.Groups {
		g.Parameters = append([]string(nil), g.Parameters...)
		c.Groups[i] = g
	}
	c.Outputs = append([]OutputDefinition(nil), d.Outputs...)
	return &c
}

// Load parses a simulation document from YAML (or JSON, which YAML subsumes).
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse simulation document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses a simulation document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
