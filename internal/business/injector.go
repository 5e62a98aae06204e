// Package business enriches simulations that model strategic or financial
// decisions with a revenue input and derived-budget helper bindings. The
// injector is an explicit instance handed to its call sites, not a package
// global, so tests and alternate policies can swap it out.
package business

import (
	"strings"

	"decisim-mcp/internal/document"
)

// RevenueKey is the parameter the injector adds when a strategic document
// does not already declare a revenue input.
const RevenueKey = "annualRevenue"

// prelude is prepended to the formula text of enriched documents. It only
// uses language constructs and the whitelisted math bindings, so it runs in
// the same sandbox as the rest of the formula.
const prelude = `local marketingBudget = annualRevenue * 0.10
local operatingBudget = annualRevenue * 0.60
local function roi(gain, cost) return (gain - cost) / cost end
local function npv(rate, cashflows)
	local value = 0
	for i = 1, #cashflows do
		value = value + cashflows[i] / pow(1 + rate, i)
	end
	return value
end
`

var strategicMarkers = []string{"strategy", "strategic", "finance", "financial", "investment", "revenue"}

// Injector decides whether a document carries strategic/financial intent and
// rewrites it accordingly.
type Injector struct {
	revenueDefault float64
}

// NewInjector returns an injector with the standard revenue default.
func NewInjector() *Injector {
	return &Injector{revenueDefault: 1_000_000}
}

// IsStrategic reports whether the document signals strategic or financial
// intent through its category or tags.
func (inj *Injector) IsStrategic(doc *document.Document) bool {
	if matchesMarker(doc.Category) {
		return true
	}
	for _, tag := range doc.Tags {
		if matchesMarker(tag) {
			return true
		}
	}
	return false
}

// Enrich returns a copy of doc with the revenue parameter and helper
// bindings applied when the document is strategic. Non-strategic documents
// are returned unchanged; the input document is never mutated.
func (inj *Injector) Enrich(doc *document.Document) *document.Document {
	if !inj.IsStrategic(doc) {
		return doc
	}

	enriched := doc.Clone()
	if _, exists := enriched.Parameter(RevenueKey); !exists {
		min := 0.0
		enriched.Parameters = append(enriched.Parameters, document.ParameterDefinition{
			Key:     RevenueKey,
			Label:   "Annual revenue",
			Type:    document.TypeNumber,
			Default: inj.revenueDefault,
			Min:     &min,
		})
	}
	if enriched.Simulation.Logic != "" {
		enriched.Simulation.Logic = prelude + enriched.Simulation.Logic
	}
	return enriched
}

func matchesMarker(s string) bool {
	s = strings.ToLower(s)
	for _, marker := range strategicMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
