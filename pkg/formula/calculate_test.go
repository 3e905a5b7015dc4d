package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_OperatorPrecedence(t *testing.T) {
	assert.Equal(t, 14.0, Calculate("2 + 3 * 4", nil))
	assert.Equal(t, 20.0, Calculate("(2 + 3) * 4", nil))
	assert.Equal(t, 10.0, Calculate("20 / 2", nil))
}

func TestCalculate_ComparisonsAsNumbers(t *testing.T) {
	assert.Equal(t, 1.0, Calculate("5 > 3", nil))
	assert.Equal(t, 0.0, Calculate("3 > 5", nil))
	assert.Equal(t, 10.0, Calculate("(5 > 3) * 10", nil))
	assert.Equal(t, 1.0, Calculate("2 + 2 == 4", nil))
}

func TestCalculate_DivisionByZero(t *testing.T) {
	assert.Equal(t, 0.0, Calculate("10 / 0", nil))
	assert.Equal(t, 0.0, Calculate("sales / teamSales", map[string]float64{"sales": 100}))
}

func TestCalculate_Ternary(t *testing.T) {
	expression := "sales > 5000000 ? sales * 0.3 : 0"

	result := Calculate(expression, map[string]float64{"sales": 8000000})
	assert.Equal(t, 2400000.0, result)

	result = Calculate(expression, map[string]float64{"sales": 1000000})
	assert.Equal(t, 0.0, result)
}

func TestCalculate_ChainedTernary(t *testing.T) {
	// A ternary nested in the false branch forms a tier ladder.
	expression := "sales > 10000000 ? sales * 0.3 : sales > 5000000 ? sales * 0.2 : sales * 0.1"

	assert.Equal(t, 3600000.0, Calculate(expression, map[string]float64{"sales": 12000000}))
	assert.Equal(t, 1600000.0, Calculate(expression, map[string]float64{"sales": 8000000}))
	assert.Equal(t, 200000.0, Calculate(expression, map[string]float64{"sales": 2000000}))
}

func TestCalculate_ClampsNegativeResults(t *testing.T) {
	result := Calculate("sales - 1000000", map[string]float64{"sales": 500000})
	assert.Equal(t, 0.0, result)
}

func TestCalculate_RoundsToNearestInteger(t *testing.T) {
	assert.Equal(t, 333.0, Calculate("sales * 0.3333", map[string]float64{"sales": 1000}))
}

func TestCalculate_UnboundVariableDefaultsToZero(t *testing.T) {
	// teamSales is whitelisted but not bound; its term evaluates as 0.
	result := Calculate("sales + teamSales", map[string]float64{"sales": 100})
	assert.Equal(t, 100.0, result)
}

func TestCalculate_InvalidFormulaReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, Calculate("eval(sales)", map[string]float64{"sales": 100}))
	assert.Equal(t, 0.0, Calculate("sales + bonus", map[string]float64{"sales": 100, "bonus": 50}))
	assert.Equal(t, 0.0, Calculate("", nil))
}

func TestCalculate_Idempotent(t *testing.T) {
	vars := map[string]float64{"sales": 7500000, "baseSalary": 3000000}
	expression := "sales > 5000000 ? sales * 0.2 + baseSalary * 0.1 : 0"

	first := Calculate(expression, vars)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(expression, vars))
	}
}

func TestTokenize_TwoCharOperators(t *testing.T) {
	tokens := Tokenize("sales >= 100")
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenVariable, tokens[0].Kind)
	assert.Equal(t, ">=", tokens[1].Text)
	assert.Equal(t, TokenOperator, tokens[1].Kind)
	assert.Equal(t, 100.0, tokens[2].Value)
}

func TestEvalPostfix_Underflow(t *testing.T) {
	_, err := evalPostfix([]Token{{Kind: TokenOperator, Text: "+"}}, nil)
	assert.Error(t, err)
}

func TestEvalPostfix_EmptyInput(t *testing.T) {
	result, err := evalPostfix(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result)
}

func TestSimulate_PreservesInputOrder(t *testing.T) {
	results := Simulate("sales * 0.1", []float64{1000000, 2000000, 3000000})

	require.Len(t, results, 3)
	assert.Equal(t, 1000000.0, results[0].Input)
	assert.Equal(t, 100000.0, results[0].Output)
	assert.Equal(t, 10.0, results[0].Percentage)
	assert.Equal(t, 200000.0, results[1].Output)
	assert.Equal(t, 300000.0, results[2].Output)
}

func TestSimulate_InvalidFormulaReportsPerEntry(t *testing.T) {
	results := Simulate("sales + bonus", []float64{1000, 2000})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEmpty(t, r.Error)
		assert.Equal(t, 0.0, r.Output)
	}
}

func TestSimulate_ZeroInput(t *testing.T) {
	results := Simulate("sales * 0.1 + 50000", []float64{0})

	require.Len(t, results, 1)
	assert.Equal(t, 50000.0, results[0].Output)
	assert.Equal(t, 0.0, results[0].Percentage)
}

func TestAnalyze(t *testing.T) {
	tiered := "sales > 10000000 ? sales * 0.3 : sales > 5000000 ? sales * 0.2 : sales > 3000000 ? sales * 0.15 : sales * 0.1"

	analysis := Analyze(tiered)
	assert.Equal(t, 6, analysis.Complexity)
	assert.True(t, analysis.IsValid)
	assert.NotEmpty(t, analysis.Suggestions)

	analysis = Analyze("sales * 0.1")
	assert.Equal(t, 0, analysis.Complexity)
	assert.Empty(t, analysis.Suggestions)

	analysis = Analyze("100000")
	assert.Contains(t, analysis.Suggestions[0], "does not reference")
}

func BenchmarkCalculate(b *testing.B) {
	expression := "sales > 5000000 ? sales * 0.2 + baseSalary * 0.05 : sales * 0.1"
	vars := map[string]float64{"sales": 8000000, "baseSalary": 3000000}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Calculate(expression, vars)
	}
}
