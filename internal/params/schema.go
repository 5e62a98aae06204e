// Package params validates and normalizes parameter values against the
// definitions a simulation document declares.
package params

import (
	"fmt"
	"math"
	"strconv"

	"decisim-mcp/internal/document"
)

// gridTolerance is the slack allowed when checking a value against the
// min + n*step quantization grid.
const gridTolerance = 1e-4

// Result collects the outcome of a validation pass. Errors are accumulated,
// not short-circuited, so a caller can report everything wrong at once.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func (r *Result) addError(format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Schema holds the parameter definitions of one simulation and answers
// validation, coercion and defaulting questions about candidate value maps.
type Schema struct {
	defs   map[string]document.ParameterDefinition
	order  []string
	groups []document.ParameterGroup
}

// NewSchema builds a schema from definitions. Duplicate keys are rejected
// here because every later lookup assumes key uniqueness.
func NewSchema(defs []document.ParameterDefinition) (*Schema, error) {
	s := &Schema{defs: make(map[string]document.ParameterDefinition, len(defs))}
	for _, def := range defs {
		if _, exists := s.defs[def.Key]; exists {
			return nil, fmt.Errorf("duplicate parameter key %q", def.Key)
		}
		s.defs[def.Key] = def
		s.order = append(s.order, def.Key)
	}
	return s, nil
}

// Definitions returns the definitions in declaration order.
func (s *Schema) Definitions() []document.ParameterDefinition {
	defs := make([]document.ParameterDefinition, 0, len(s.order))
	for _, key := range s.order {
		defs = append(defs, s.defs[key])
	}
	return defs
}

// AddGroup registers a presentation group. A group referencing a key the
// schema does not know fails fast rather than being silently dropped.
func (s *Schema) AddGroup(g document.ParameterGroup) error {
	for _, key := range g.Parameters {
		if _, ok := s.defs[key]; !ok {
			return fmt.Errorf("group %q references unknown parameter %q", g.Name, key)
		}
	}
	s.groups = append(s.groups, g)
	return nil
}

// Groups returns the registered presentation groups.
func (s *Schema) Groups() []document.ParameterGroup {
	return s.groups
}

// ValidateParameter type-checks value against the definition for key.
// An unknown key is a validation failure, not a silent pass.
func (s *Schema) ValidateParameter(key string, value any) Result {
	res := Result{IsValid: true}
	def, ok := s.defs[key]
	if !ok {
		res.addError("unknown parameter %q", key)
		return res
	}

	switch def.Type {
	case document.TypeNumber:
		num, ok := toNumber(value)
		if !ok {
			res.addError("parameter %q: value %v is not numeric", key, value)
			return res
		}
		if def.Min != nil && num < *def.Min {
			res.addError("parameter %q: value %v is below minimum %v", key, num, *def.Min)
		}
		if def.Max != nil && num > *def.Max {
			res.addError("parameter %q: value %v is above maximum %v", key, num, *def.Max)
		}
		if def.Min != nil && def.Step != nil && *def.Step > 0 {
			if !onGrid(num, *def.Min, *def.Step) {
				res.addError("parameter %q: value %v is not on the %v-step grid starting at %v", key, num, *def.Step, *def.Min)
			}
		}
	case document.TypeBoolean:
		if _, ok := value.(bool); !ok {
			res.addError("parameter %q: value %v is not a boolean", key, value)
		}
	case document.TypeSelect:
		str := stringify(value)
		found := false
		for _, opt := range def.Options {
			if opt == str {
				found = true
				break
			}
		}
		if !found {
			res.addError("parameter %q: value %q is not one of the allowed options %v", key, str, def.Options)
		}
	case document.TypeString:
		if _, ok := value.(string); !ok {
			res.addError("parameter %q: value %v is not a string", key, value)
		}
	default:
		res.addError("parameter %q: unsupported type %q", key, def.Type)
	}
	return res
}

// ValidateParameters validates every supplied key and separately reports
// every definition whose key is absent from values. Definitions are the
// source of truth for required inputs; there is no optional input without a
// default substituted beforehand.
func (s *Schema) ValidateParameters(values map[string]any) Result {
	res := Result{IsValid: true}
	for key, value := range values {
		if sub := s.ValidateParameter(key, value); !sub.IsValid {
			res.IsValid = false
			res.Errors = append(res.Errors, sub.Errors...)
		}
	}
	for _, key := range s.order {
		if _, supplied := values[key]; !supplied {
			res.addError("missing parameter %q", key)
		}
	}
	return res
}

// CoerceParameters applies best-effort type coercion per definition so
// external string-typed input (CLI flags, env vars) can be normalized before
// validation. Unknown keys pass through unchanged.
func (s *Schema) CoerceParameters(values map[string]any) map[string]any {
	coerced := make(map[string]any, len(values))
	for key, value := range values {
		def, ok := s.defs[key]
		if !ok {
			coerced[key] = value
			continue
		}
		switch def.Type {
		case document.TypeNumber:
			if num, ok := toNumber(value); ok {
				coerced[key] = num
			} else {
				coerced[key] = value
			}
		case document.TypeBoolean:
			coerced[key] = toBoolean(value)
		case document.TypeString, document.TypeSelect:
			coerced[key] = stringify(value)
		default:
			coerced[key] = value
		}
	}
	return coerced
}

// DefaultParameters returns a fresh map of every definition's default value.
func (s *Schema) DefaultParameters() map[string]any {
	defaults := make(map[string]any, len(s.order))
	for _, key := range s.order {
		defaults[key] = s.defs[key].Default
	}
	return defaults
}

func onGrid(value, min, step float64) bool {
	steps := (value - min) / step
	return math.Abs(steps-math.Round(steps))*step <= gridTolerance
}

// toNumber converts the value shapes YAML, JSON and CLI layers produce.
// NaN is rejected outright: every bound comparison against it is false, so it
// would slip past min/max unchecked. Infinities stay numeric; where bounds
// exist they catch them.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		num, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(num) {
			return 0, false
		}
		return num, true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func toBoolean(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
		return value
	case int:
		return v != 0
	case float64:
		return v != 0
	default:
		return value
	}
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
