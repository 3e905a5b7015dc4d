package formula

import (
	"errors"
	"log"
	"math"
	"strings"
)

// Calculate validates and evaluates a formula against the given variable
// bindings. It never returns an error: any validation or evaluation failure
// is logged and produces 0, so a broken formula can only ever zero an
// incentive, never crash a payroll run or emit NaN. The result is clamped at
// 0 and rounded to the nearest integer.
func Calculate(expression string, vars map[string]float64) float64 {
	if res := Validate(expression); !res.IsValid {
		log.Printf("formula: rejected %q: %s", expression, res.Error)
		return 0
	}

	value, err := evaluate(expression, vars)
	if err != nil {
		log.Printf("formula: evaluation of %q failed: %v", expression, err)
		return 0
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return math.Round(value)
}

// evaluate runs one formula through the pipeline. A formula containing both
// "?" and ":" takes the ternary path; everything else goes
// tokenize -> postfix -> stack machine.
func evaluate(expression string, vars map[string]float64) (float64, error) {
	if strings.Contains(expression, "?") && strings.Contains(expression, ":") {
		return evaluateTernary(expression, vars)
	}
	return evalPostfix(toPostfix(Tokenize(expression)), vars)
}

// evaluateTernary splits "cond ? a : b" on the first "?" and the first ":"
// after it, then recursively evaluates the condition and the selected branch
// as full formulas. A ternary nested in the false branch chains naturally;
// one nested in the condition or true branch is not supported.
func evaluateTernary(expression string, vars map[string]float64) (float64, error) {
	q := strings.Index(expression, "?")
	rest := expression[q+1:]
	c := strings.Index(rest, ":")
	if c < 0 {
		return 0, errors.New("malformed conditional expression")
	}

	condition := strings.TrimSpace(expression[:q])
	trueBranch := strings.TrimSpace(rest[:c])
	falseBranch := strings.TrimSpace(rest[c+1:])
	if condition == "" || trueBranch == "" || falseBranch == "" {
		return 0, errors.New("malformed conditional expression")
	}

	cond, err := evaluate(condition, vars)
	if err != nil {
		return 0, err
	}
	if cond != 0 {
		return evaluate(trueBranch, vars)
	}
	return evaluate(falseBranch, vars)
}
