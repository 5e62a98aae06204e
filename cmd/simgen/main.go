// simgen emits example simulation documents for demos and validator tests,
// mirroring the mock-data generator pattern of the analysis tooling.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"decisim-mcp/internal/document"
)

func main() {
	scenario := flag.String("scenario", "all", "Scenario to generate: launch, pricing, hiring, all")
	outDir := flag.String("out", "./simulations", "Output directory for document files")
	flag.Parse()

	docs := map[string]*document.Document{
		"launch":  launchDoc(),
		"pricing": pricingDoc(),
		"hiring":  hiringDoc(),
	}

	selected := make(map[string]*document.Document)
	if *scenario == "all" {
		selected = docs
	} else if doc, ok := docs[*scenario]; ok {
		selected[*scenario] = doc
	} else {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenario)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "create output directory: %v\n", err)
		os.Exit(1)
	}

	for name, doc := range selected {
		path := filepath.Join(*outDir, name+".yaml")
		data, err := yaml.Marshal(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal %s: %v\n", name, err)
			os.Exit(1)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}
}

func floatPtr(v float64) *float64 { return &v }

func launchDoc() *document.Document {
	return &document.Document{
		Name:        "product-launch",
		Category:    "strategy",
		Description: "Forecasts first-year return of a product launch under uncertain adoption.",
		Version:     "1.0.0",
		Tags:        []string{"finance", "launch"},
		Parameters: []document.ParameterDefinition{
			{Key: "investment", Label: "Initial investment", Type: document.TypeNumber, Default: 50000, Min: floatPtr(1000), Max: floatPtr(1000000)},
			{Key: "unitPrice", Label: "Unit price", Type: document.TypeNumber, Default: 49.0, Min: floatPtr(1), Max: floatPtr(500)},
			{Key: "marketSize", Label: "Addressable market", Type: document.TypeNumber, Default: 20000, Min: floatPtr(100)},
			{Key: "premiumTier", Label: "Offer premium tier", Type: document.TypeBoolean, Default: true},
		},
		Groups: []document.ParameterGroup{
			{Name: "economics", Label: "Economics", Parameters: []string{"investment", "unitPrice"}},
		},
		Outputs: []document.OutputDefinition{
			{Key: "roi", Label: "Return on investment"},
			{Key: "profit", Label: "First-year profit"},
		},
		Simulation: document.Simulation{Logic: `local adoption = 0.01 + random() * 0.04
local units = marketSize * adoption
local price = unitPrice
if premiumTier then
	price = price * 1.2
end
local revenue = units * price
local profit = revenue - investment
return { roi = profit / investment, profit = profit }
`},
	}
}

func pricingDoc() *document.Document {
	return &document.Document{
		Name:        "pricing-change",
		Category:    "strategy",
		Description: "Estimates revenue impact of a price change with elastic demand.",
		Version:     "1.0.0",
		Tags:        []string{"finance", "pricing"},
		Extends:     "product-launch",
		Parameters: []document.ParameterDefinition{
			{Key: "priceChange", Label: "Price change", Type: document.TypeSelect, Default: "increase", Options: []string{"increase", "decrease"}},
			{Key: "elasticity", Label: "Demand elasticity", Type: document.TypeNumber, Default: 1.2, Min: floatPtr(0), Max: floatPtr(5), Step: floatPtr(0.1)},
		},
		Outputs: []document.OutputDefinition{
			{Key: "revenueDelta", Label: "Revenue delta"},
		},
		Simulation: document.Simulation{Logic: `local direction = 1
if priceChange == "decrease" then
	direction = -1
end
local shift = direction * (0.05 + random() * 0.10)
local demandShift = -shift * elasticity
local revenueDelta = marketSize * unitPrice * (shift + demandShift)
return { revenueDelta = revenueDelta }
`},
	}
}

func hiringDoc() *document.Document {
	return &document.Document{
		Name:        "team-expansion",
		Category:    "operations",
		Description: "Models delivery capacity gained from hiring under ramp-up uncertainty.",
		Version:     "1.0.0",
		Tags:        []string{"capacity"},
		Parameters: []document.ParameterDefinition{
			{Key: "hires", Label: "New hires", Type: document.TypeNumber, Default: 3, Min: floatPtr(1), Max: floatPtr(50), Step: floatPtr(1)},
			{Key: "rampMonths", Label: "Ramp-up months", Type: document.TypeNumber, Default: 3, Min: floatPtr(1), Max: floatPtr(12)},
		},
		Outputs: []document.OutputDefinition{
			{Key: "capacityGain", Label: "Capacity gain"},
		},
		Simulation: document.Simulation{Logic: `local productivity = 0.5 + random() * 0.5
local capacityGain = hires * productivity * (12 - rampMonths) / 12
return { capacityGain = capacityGain }
`},
	}
}
