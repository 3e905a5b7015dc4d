package formula

import (
	"errors"
	"fmt"
)

// toPostfix reorders a non-ternary token sequence into reverse polish
// notation using Dijkstra's shunting yard. Operators are left-associative;
// precedence comes from the package precedence table.
func toPostfix(tokens []Token) []Token {
	output := make([]Token, 0, len(tokens))
	var stack []Token

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNumber, TokenVariable:
			output = append(output, tok)

		case TokenLeftParen:
			stack = append(stack, tok)

		case TokenRightParen:
			for len(stack) > 0 && stack[len(stack)-1].Kind != TokenLeftParen {
				output = append(output, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				// discard the matching "("
				stack = stack[:len(stack)-1]
			}

		default:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind == TokenLeftParen || precedence[top.Text] < precedence[tok.Text] {
					break
				}
				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}

	for len(stack) > 0 {
		output = append(output, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}
	return output
}

// evalPostfix executes an RPN token sequence as a stack machine. Unbound
// variables read as 0. Division by zero yields 0 instead of an infinity so a
// monetary result can never be NaN/Inf.
func evalPostfix(rpn []Token, vars map[string]float64) (float64, error) {
	var stack []float64

	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNumber:
			stack = append(stack, tok.Value)

		case TokenVariable:
			stack = append(stack, vars[tok.Text])

		case TokenOperator:
			if len(stack) < 2 {
				return 0, fmt.Errorf("operator %q has too few operands", tok.Text)
			}
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			v, err := applyOperator(tok.Text, a, b)
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)

		default:
			return 0, fmt.Errorf("unexpected token %q in postfix expression", tok.Text)
		}
	}

	if len(stack) == 0 {
		return 0, nil
	}
	return stack[len(stack)-1], nil
}

func applyOperator(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, nil
		}
		return a / b, nil
	case ">":
		return boolToFloat(a > b), nil
	case "<":
		return boolToFloat(a < b), nil
	case ">=":
		return boolToFloat(a >= b), nil
	case "<=":
		return boolToFloat(a <= b), nil
	case "==":
		return boolToFloat(a == b), nil
	case "!=":
		return boolToFloat(a != b), nil
	}
	return 0, errors.New("unknown operator " + op)
}

// Comparisons produce 1/0 so their results compose with arithmetic.
func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
