package formula

import "math"

// SimulationResult is one row of a formula preview: the sales input, the
// incentive it produces, and the incentive as a percentage of the input.
type SimulationResult struct {
	Input      float64 `json:"input"`
	Output     float64 `json:"output"`
	Percentage float64 `json:"percentage"`
	Error      string  `json:"error,omitempty"`
}

// Simulate evaluates a formula once per input value, binding the single
// variable "sales" each time. Results preserve input order; a failing entry
// records its error and a zero incentive without aborting the rest.
func Simulate(expression string, inputs []float64) []SimulationResult {
	results := make([]SimulationResult, 0, len(inputs))

	validation := Validate(expression)

	for _, input := range inputs {
		if !validation.IsValid {
			results = append(results, SimulationResult{Input: input, Error: validation.Error})
			continue
		}

		value, err := evaluate(expression, map[string]float64{"sales": input})
		if err != nil {
			results = append(results, SimulationResult{Input: input, Error: err.Error()})
			continue
		}

		if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
			value = 0
		}
		output := math.Round(value)

		var pct float64
		if input != 0 {
			pct = math.Round(output/input*10000) / 100
		}
		results = append(results, SimulationResult{Input: input, Output: output, Percentage: pct})
	}
	return results
}
