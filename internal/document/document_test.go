package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: product-launch
category: strategy
description: Forecasts first-year return of a product launch.
version: 1.0.0
tags: [finance, launch]
parameters:
  - key: investment
    label: Initial investment
    type: number
    default: 50000
    min: 1000
    max: 1000000
  - key: risk
    label: Risk appetite
    type: select
    default: low
    options: [low, high]
groups:
  - name: money
    label: Money
    parameters: [investment]
outputs:
  - key: roi
    label: Return on investment
simulation:
  logic: "return { roi = investment * random() }"
`

func TestLoad(t *testing.T) {
	doc, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "product-launch", doc.Name)
	assert.Equal(t, "1.0.0", doc.Version)
	require.Len(t, doc.Parameters, 2)

	inv, ok := doc.Parameter("investment")
	require.True(t, ok)
	assert.Equal(t, TypeNumber, inv.Type)
	require.NotNil(t, inv.Min)
	assert.Equal(t, 1000.0, *inv.Min)

	risk, ok := doc.Parameter("risk")
	require.True(t, ok)
	assert.Equal(t, []string{"low", "high"}, risk.Options)

	assert.Equal(t, []string{"roi"}, doc.OutputKeys())
	assert.Contains(t, doc.Simulation.Logic, "return")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("{{not yaml"))
	assert.ErrorContains(t, err, "parse simulation document")
}

func TestClone_IsDeep(t *testing.T) {
	doc, err := Load([]byte(sampleYAML))
	require.NoError(t, err)

	clone := doc.Clone()
	clone.Tags[0] = "changed"
	clone.Parameters[1].Options[0] = "changed"
	clone.Groups[0].Parameters[0] = "changed"
	clone.Outputs[0].Key = "changed"

	assert.Equal(t, "finance", doc.Tags[0])
	assert.Equal(t, "low", doc.Parameters[1].Options[0])
	assert.Equal(t, "investment", doc.Groups[0].Parameters[0])
	assert.Equal(t, "roi", doc.Outputs[0].Key)
}

func TestValidIdentifier(t *testing.T) {
	for _, ok := range []string{"investment", "_hidden", "camelCase", "x1"} {
		assert.True(t, ValidIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1x", "with space", "with-dash", "dotted.key"} {
		assert.False(t, ValidIdentifier(bad), bad)
	}
}

func TestKnownType(t *testing.T) {
	assert.True(t, KnownType(TypeSelect))
	assert.False(t, KnownType(ParameterType("enum")))
}
