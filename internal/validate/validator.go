// Package validate checks simulation documents in two stages: structural
// shape first, cross-field business rules second. Business rules assume a
// well-typed shape, so a structural failure short-circuits the pipeline.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"decisim-mcp/internal/document"
)

const (
	minDescriptionLen = 10
	maxDescriptionLen = 500
	maxTags           = 10
	maxParameters     = 20
	maxOutputs        = 10
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Result is the outcome of validating one document. Errors make Valid false;
// warnings are informational and never do.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) errorf(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateDocument runs both validation stages against doc. Validation is
// idempotent: the same document always yields the same result.
func ValidateDocument(doc *document.Document) Result {
	res := Result{Valid: true, Errors: []string{}, Warnings: []string{}}

	validateStructure(doc, &res)
	if !res.Valid {
		return res
	}

	validateBusinessRules(doc, &res)
	return res
}

// validateStructure checks required fields, primitive types and declared
// length and pattern constraints.
func validateStructure(doc *document.Document, res *Result) {
	if doc.Name == "" {
		res.errorf("name: required field is missing")
	}
	if doc.Category == "" {
		res.errorf("category: required field is missing")
	}
	if !versionPattern.MatchString(doc.Version) {
		res.errorf("version: %q does not match the required MAJOR.MINOR.PATCH format", doc.Version)
	}
	if n := len(doc.Description); n < minDescriptionLen || n > maxDescriptionLen {
		res.errorf("description: length %d is outside the allowed range %d-%d", n, minDescriptionLen, maxDescriptionLen)
	}
	if len(doc.Tags) < 1 || len(doc.Tags) > maxTags {
		res.errorf("tags: %d tags given, expected between 1 and %d", len(doc.Tags), maxTags)
	}
	for i, tag := range doc.Tags {
		if strings.TrimSpace(tag) == "" {
			res.errorf("tags[%d]: tag must be a non-empty string", i)
		}
	}
	if len(doc.Parameters) < 1 || len(doc.Parameters) > maxParameters {
		res.errorf("parameters: %d definitions given, expected between 1 and %d", len(doc.Parameters), maxParameters)
	}
	if len(doc.Outputs) > maxOutputs {
		res.errorf("outputs: %d definitions given, expected at most %d", len(doc.Outputs), maxOutputs)
	}

	for i, p := range doc.Parameters {
		path := fmt.Sprintf("parameters[%d]", i)
		if p.Key == "" {
			res.errorf("%s.key: required field is missing", path)
		} else if !document.ValidIdentifier(p.Key) {
			res.errorf("%s.key: %q is not a valid identifier", path, p.Key)
		}
		if p.Label == "" {
			res.errorf("%s.label: required field is missing", path)
		}
		if !document.KnownType(p.Type) {
			res.errorf("%s.type: %q is not one of number, boolean, string, select", path, p.Type)
			continue
		}
		if p.Default == nil {
			res.errorf("%s.default: required field is missing", path)
			continue
		}
		validateDefaultType(p, path, res)
	}

	for i, o := range doc.Outputs {
		path := fmt.Sprintf("outputs[%d]", i)
		if o.Key == "" {
			res.errorf("%s.key: required field is missing", path)
		}
		if o.Label == "" {
			res.errorf("%s.label: required field is missing", path)
		}
	}
}

func validateDefaultType(p document.ParameterDefinition, path string, res *Result) {
	switch p.Type {
	case document.TypeNumber:
		if !isNumeric(p.Default) {
			res.errorf("%s.default: %v is not a number", path, p.Default)
		}
	case document.TypeBoolean:
		if _, ok := p.Default.(bool); !ok {
			res.errorf("%s.default: %v is not a boolean", path, p.Default)
		}
	case document.TypeString, document.TypeSelect:
		if _, ok := p.Default.(string); !ok {
			res.errorf("%s.default: %v is not a string", path, p.Default)
		}
	}
}

// validateBusinessRules checks cross-field consistency on a structurally
// valid document.
func validateBusinessRules(doc *document.Document, res *Result) {
	seen := make(map[string]bool)
	for _, p := range doc.Parameters {
		if seen[p.Key] {
			res.errorf("parameters: duplicate key %q", p.Key)
		}
		seen[p.Key] = true
	}

	outputSeen := make(map[string]bool)
	for _, o := range doc.Outputs {
		if outputSeen[o.Key] {
			res.errorf("outputs: duplicate key %q", o.Key)
		}
		outputSeen[o.Key] = true
	}

	for _, p := range doc.Parameters {
		switch p.Type {
		case document.TypeSelect:
			if len(p.Options) == 0 {
				res.errorf("parameter %q: select type requires a non-empty options list", p.Key)
				continue
			}
			def, _ := p.Default.(string)
			if !contains(p.Options, def) {
				res.errorf("parameter %q: default %q is not one of the options %v", p.Key, def, p.Options)
			}
		case document.TypeNumber:
			if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
				res.errorf("parameter %q: min %v is greater than max %v", p.Key, *p.Min, *p.Max)
			}
			if num, ok := toFloat(p.Default); ok {
				if p.Min != nil && num < *p.Min {
					res.errorf("parameter %q: default %v is below minimum %v", p.Key, num, *p.Min)
				}
				if p.Max != nil && num > *p.Max {
					res.errorf("parameter %q: default %v is above maximum %v", p.Key, num, *p.Max)
				}
			}
		}
	}

	for _, g := range doc.Groups {
		for _, key := range g.Parameters {
			if !seen[key] {
				res.errorf("group %q: references unknown parameter %q", g.Name, key)
			}
		}
	}

	logic := doc.Simulation.Logic
	if logic == "" && doc.Extends == "" {
		res.errorf("simulation: either simulation.logic or extends must be present")
	}
	if logic != "" {
		// Cheap textual heuristic, not static analysis: a chunk without
		// "return" cannot produce an output table.
		if !strings.Contains(logic, "return") {
			res.errorf("simulation.logic: must contain a return statement")
		}
		if len(doc.Outputs) > 0 {
			referenced := false
			for _, o := range doc.Outputs {
				if strings.Contains(logic, o.Key) {
					referenced = true
					break
				}
			}
			if !referenced {
				res.warnf("simulation.logic: none of the declared output keys appear in the logic text")
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func isNumeric(v any) bool {
	_, ok := toFloat(v)
	return ok
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
