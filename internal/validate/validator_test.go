package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decisim-mcp/internal/document"
)

func floatPtr(v float64) *float64 { return &v }

func validDoc() *document.Document {
	return &document.Document{
		Name:        "product-launch",
		Category:    "strategy",
		Description: "Forecasts first-year return of a product launch.",
		Version:     "1.0.0",
		Tags:        []string{"finance"},
		Parameters: []document.ParameterDefinition{
			{Key: "investment", Label: "Investment", Type: document.TypeNumber, Default: 50000, Min: floatPtr(1000), Max: floatPtr(1000000)},
			{Key: "risk", Label: "Risk", Type: document.TypeSelect, Default: "low", Options: []string{"low", "high"}},
		},
		Groups: []document.ParameterGroup{
			{Name: "money", Parameters: []string{"investment"}},
		},
		Outputs: []document.OutputDefinition{
			{Key: "roi", Label: "Return on investment"},
		},
		Simulation: document.Simulation{Logic: `return { roi = investment * random() }`},
	}
}

func TestValidateDocument_Valid(t *testing.T) {
	res := ValidateDocument(validDoc())

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateDocument_Idempotent(t *testing.T) {
	doc := validDoc()

	first := ValidateDocument(doc)
	second := ValidateDocument(doc)

	assert.Equal(t, first, second)
}

func TestValidateDocument_StructuralErrors(t *testing.T) {
	doc := validDoc()
	doc.Version = "1.0"
	doc.Description = "too short"
	doc.Tags = nil

	res := ValidateDocument(doc)

	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
}

func TestValidateDocument_StructuralFailureShortCircuits(t *testing.T) {
	doc := validDoc()
	doc.Version = "not-semver"
	// Would be a business-rule error, but must not be reported while the
	// structure is broken.
	doc.Parameters = append(doc.Parameters, doc.Parameters[0])

	res := ValidateDocument(doc)

	require.False(t, res.Valid)
	for _, e := range res.Errors {
		assert.NotContains(t, e, "duplicate")
	}
}

func TestValidateDocument_DuplicateKeys(t *testing.T) {
	doc := validDoc()
	doc.Parameters = append(doc.Parameters, doc.Parameters[0])
	doc.Outputs = append(doc.Outputs, doc.Outputs[0])

	res := ValidateDocument(doc)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], `duplicate key "investment"`)
	assert.Contains(t, res.Errors[1], `duplicate key "roi"`)
}

func TestValidateDocument_SelectRules(t *testing.T) {
	doc := validDoc()
	doc.Parameters[1].Options = nil

	res := ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "non-empty options")

	doc = validDoc()
	doc.Parameters[1].Default = "medium"
	res = ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "not one of the options")
}

func TestValidateDocument_NumberBounds(t *testing.T) {
	doc := validDoc()
	doc.Parameters[0].Default = 10 // below min 1000

	res := ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "below minimum")

	doc = validDoc()
	doc.Parameters[0].Min = floatPtr(100)
	doc.Parameters[0].Max = floatPtr(10)
	res = ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "greater than max")
}

func TestValidateDocument_GroupReferences(t *testing.T) {
	doc := validDoc()
	doc.Groups[0].Parameters = []string{"ghost"}

	res := ValidateDocument(doc)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], `unknown parameter "ghost"`)
}

func TestValidateDocument_LogicRules(t *testing.T) {
	doc := validDoc()
	doc.Simulation.Logic = "local x = 1"

	res := ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "return")

	doc = validDoc()
	doc.Simulation.Logic = ""
	doc.Extends = ""
	res = ValidateDocument(doc)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "either simulation.logic or extends")

	doc = validDoc()
	doc.Simulation.Logic = ""
	doc.Extends = "base-model"
	res = ValidateDocument(doc)
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestValidateDocument_UnreferencedOutputIsWarning(t *testing.T) {
	doc := validDoc()
	doc.Simulation.Logic = `return { everything = random() }`

	res := ValidateDocument(doc)

	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "output keys")
}
