package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AcceptsWhitelistedFormulas(t *testing.T) {
	expressions := []string{
		"sales * 0.1",
		"baseSalary + 500000",
		"sales > 5000000 ? sales * 0.3 : 0",
		"(personalSales + teamSales) / 2",
		"totalSales >= 10000000 ? totalSales * 0.05 : totalSales * 0.02",
		"years * 100000",
	}

	for _, expr := range expressions {
		res := Validate(expr)
		assert.True(t, res.IsValid, "expected %q to be valid, got: %s", expr, res.Error)
		assert.Empty(t, res.Error)
	}
}

func TestValidate_RejectsEmptyFormula(t *testing.T) {
	assert.False(t, Validate("").IsValid)
	assert.False(t, Validate("   ").IsValid)
}

func TestValidate_RejectsDangerousKeywords(t *testing.T) {
	expressions := []string{
		"eval(sales)",
		"sales + require",
		"setTimeout",
		"child_process",
		"sales * spawn",
		"import sales",
	}

	for _, expr := range expressions {
		res := Validate(expr)
		assert.False(t, res.IsValid, "expected %q to be rejected", expr)
		assert.NotEmpty(t, res.Error)
	}
}

// The denylist matches substrings, so "performance" trips the "for" entry
// even though it is on the variable whitelist. Behavior inherited from the
// original engine; pinned here so a change is a conscious one.
func TestValidate_SubstringDenylistShadowsPerformance(t *testing.T) {
	res := Validate("performance * 100000")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "forbidden keyword")
}

func TestValidate_RejectsInvalidCharacters(t *testing.T) {
	expressions := []string{
		"sales * 0.1; 1",
		"sales & 1",
		"sales | 1",
		"sales # 2",
		"sales $ 2",
		"sales[0]",
	}

	for _, expr := range expressions {
		assert.False(t, Validate(expr).IsValid, "expected %q to be rejected", expr)
	}
}

func TestValidate_RejectsUnknownIdentifiers(t *testing.T) {
	res := Validate("sales + bonus")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "bonus")
}

func TestValidate_AllowsMathPrefix(t *testing.T) {
	assert.True(t, Validate("Math.max").IsValid)
}

func TestValidate_RejectsUnbalancedParentheses(t *testing.T) {
	res := Validate("(sales * 0.1")
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Error, "parentheses")

	assert.False(t, Validate("sales * 0.1)").IsValid)
}
