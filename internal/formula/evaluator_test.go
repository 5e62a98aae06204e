package formula

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestEvaluate_ReturnsOutputs(t *testing.T) {
	e := NewEvaluator(`return { roi = 1 + random() }`, []string{"roi"})

	out, err := e.Evaluate(nil, testRng())

	require.NoError(t, err)
	assert.GreaterOrEqual(t, out["roi"], 1.0)
	assert.Less(t, out["roi"], 2.0)
}

func TestEvaluate_BindsParameters(t *testing.T) {
	e := NewEvaluator(`
local price = unitPrice
if premium then
	price = price * 2
end
return { revenue = units * price, tagIsEU = region == "eu" and 1 or 0 }
`, nil)

	out, err := e.Evaluate(map[string]any{
		"unitPrice": 10.0,
		"premium":   true,
		"units":     3,
		"region":    "eu",
	}, testRng())

	require.NoError(t, err)
	assert.Equal(t, 60.0, out["revenue"])
	assert.Equal(t, 1.0, out["tagIsEU"])
}

func TestEvaluate_MathBindings(t *testing.T) {
	e := NewEvaluator(`return {
	a = sqrt(16),
	b = pow(2, 10),
	c = min(3, 1, 2),
	d = max(3, 1, 2),
	e = floor(1.7) + ceil(1.2) + round(2.5),
	f = abs(-4),
}`, nil)

	out, err := e.Evaluate(nil, testRng())

	require.NoError(t, err)
	assert.Equal(t, 4.0, out["a"])
	assert.Equal(t, 1024.0, out["b"])
	assert.Equal(t, 1.0, out["c"])
	assert.Equal(t, 3.0, out["d"])
	assert.Equal(t, 6.0, out["e"])
	assert.Equal(t, 4.0, out["f"])
}

func TestEvaluate_MissingDeclaredOutput(t *testing.T) {
	e := NewEvaluator(`return { roi = 1 }`, []string{"roi", "profit"})

	_, err := e.Evaluate(nil, testRng())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing declared outputs")
	assert.Contains(t, err.Error(), "profit")
}

func TestEvaluate_NonNumericOutput(t *testing.T) {
	e := NewEvaluator(`return { label = "not numeric at all" }`, nil)

	_, err := e.Evaluate(nil, testRng())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"label"`)
}

func TestEvaluate_NumericStringCoerced(t *testing.T) {
	e := NewEvaluator(`return { v = "42" }`, nil)

	out, err := e.Evaluate(nil, testRng())

	require.NoError(t, err)
	assert.Equal(t, 42.0, out["v"])
}

func TestEvaluate_NaNOutputFails(t *testing.T) {
	e := NewEvaluator(`return { v = 0 / 0 }`, nil)

	_, err := e.Evaluate(nil, testRng())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"v"`)
}

func TestEvaluate_NonTableResult(t *testing.T) {
	e := NewEvaluator(`return 42`, nil)

	_, err := e.Evaluate(nil, testRng())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must return a table")
}

func TestEvaluate_SandboxHasNoStandardLibraries(t *testing.T) {
	for _, source := range []string{
		`return { t = os.time() }`,
		`return { f = io.open("/etc/passwd") }`,
		`require("os") return { x = 1 }`,
		`print("hi") return { x = 1 }`,
	} {
		e := NewEvaluator(source, nil)
		_, err := e.Evaluate(nil, testRng())
		assert.Error(t, err, "source %q should not run in the sandbox", source)
	}
}

func TestEvaluate_CompileError(t *testing.T) {
	e := NewEvaluator(`this is not lua`, nil)

	_, err := e.Evaluate(nil, testRng())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile formula")
}

func TestEvaluate_RandomIsDeterministicPerSeed(t *testing.T) {
	e := NewEvaluator(`return { v = random() }`, nil)

	a, err := e.Evaluate(nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := e.Evaluate(nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, a["v"], b["v"])
}
