package formula

import "strings"

// Analysis holds static heuristics about a formula. Suggestions are
// best-effort hints for the administrator UI and never block evaluation.
type Analysis struct {
	Complexity  int      `json:"complexity"`
	Suggestions []string `json:"suggestions"`
	IsValid     bool     `json:"is_valid"`
}

// Analyze reports a formula's branching complexity (the count of "?" and ":"
// characters) together with readability suggestions.
func Analyze(expression string) Analysis {
	complexity := strings.Count(expression, "?") + strings.Count(expression, ":")

	var suggestions []string
	if complexity > 3 {
		suggestions = append(suggestions, "formula has many conditional branches; consider splitting it into separate incentive tiers")
	}
	if len(expression) > 200 {
		suggestions = append(suggestions, "formula is very long; shorter formulas are easier to review and audit")
	}
	if !referencesVariable(expression) {
		suggestions = append(suggestions, "formula does not reference any input variable, so every employee receives the same amount")
	}

	return Analysis{
		Complexity:  complexity,
		Suggestions: suggestions,
		IsValid:     Validate(expression).IsValid,
	}
}

func referencesVariable(expression string) bool {
	for _, ident := range identifiers.FindAllString(expression, -1) {
		if allowedVariables[ident] {
			return true
		}
	}
	return false
}
