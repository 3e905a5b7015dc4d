package formula

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// ValidationResult is returned by Validate. A formula may only be persisted
// after passing validation.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Error   string `json:"error,omitempty"`
}

// Variables is the closed set of identifiers a formula may reference.
// Bindings outside this set never reach the evaluator through the public API.
var Variables = []string{
	"sales",
	"baseSalary",
	"years",
	"performance",
	"personalSales",
	"totalSales",
	"teamSales",
}

// dangerousKeywords are rejected anywhere in the raw formula string,
// case-sensitively, before any lexing happens.
var dangerousKeywords = []string{
	"eval", "Function", "setTimeout", "setInterval",
	"require", "import", "process", "global",
	"console", "Buffer", "child_process", "fs",
	"exec", "spawn", "fork",
	"while", "for", "do",
}

// keywordMatcher scans the whole formula in one pass over all denylist
// entries. Match index maps back into dangerousKeywords.
var keywordMatcher = func() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		MatchKind: ahocorasick.LeftMostLongestMatch,
	})
	return builder.Build(dangerousKeywords)
}()

var (
	allowedChars = regexp.MustCompile(`^[A-Za-z0-9\s+\-*/()><=!?:.,_]*$`)
	identifiers  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`)
)

var allowedVariables = func() map[string]bool {
	m := make(map[string]bool, len(Variables))
	for _, v := range Variables {
		m[v] = true
	}
	return m
}()

// Validate checks a formula string without evaluating it. It fails fast on
// the first problem found: empty input, a dangerous keyword, a character
// outside the allowed set, an identifier outside the variable whitelist, or
// unbalanced parentheses.
func Validate(expression string) ValidationResult {
	if strings.TrimSpace(expression) == "" {
		return invalid("formula must be a non-empty string")
	}

	if matches := keywordMatcher.FindAll(expression); len(matches) > 0 {
		keyword := dangerousKeywords[matches[0].Pattern()]
		return invalid(fmt.Sprintf("formula contains forbidden keyword %q", keyword))
	}

	if !allowedChars.MatchString(expression) {
		return invalid("formula contains invalid characters")
	}

	for _, ident := range identifiers.FindAllString(expression, -1) {
		if allowedVariables[ident] {
			continue
		}
		if strings.HasPrefix(ident, "Math.") {
			continue
		}
		if _, err := strconv.ParseFloat(ident, 64); err == nil {
			continue
		}
		return invalid(fmt.Sprintf("formula references disallowed identifier %q", ident))
	}

	if strings.Count(expression, "(") != strings.Count(expression, ")") {
		return invalid("formula has unbalanced parentheses")
	}

	return ValidationResult{IsValid: true}
}

func invalid(reason string) ValidationResult {
	return ValidationResult{IsValid: false, Error: reason}
}
