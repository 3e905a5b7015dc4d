package formula

import (
	"regexp"
	"strconv"
)

// TokenKind classifies a lexed token.
type TokenKind int

const (
	TokenNumber TokenKind = iota
	TokenVariable
	TokenOperator
	TokenLeftParen
	TokenRightParen
	TokenQuestion
	TokenColon
)

// Token is a single lexed element of a formula. Number tokens carry the
// parsed value; all tokens carry their literal text.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64
}

// precedence table for the shunting yard. Higher binds tighter.
// "&&" and "||" are reserved entries the tokenizer does not emit.
var precedence = map[string]int{
	"?": 1, ":": 1,
	"||": 2, "&&": 2,
	"==": 3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5,
}

// tokenPattern matches two-character comparators before their one-character
// prefixes, then numbers, identifiers and single-character punctuation.
// Whitespace and anything else falls through unmatched.
var tokenPattern = regexp.MustCompile(`>=|<=|==|!=|\d+(?:\.\d+)?|[A-Za-z_][A-Za-z0-9_]*|[+\-*/()><!?:]`)

// Tokenize splits a formula into a flat token sequence. It does not reject
// unrecognized characters; input is expected to have passed Validate first.
func Tokenize(expression string) []Token {
	matches := tokenPattern.FindAllString(expression, -1)
	tokens := make([]Token, 0, len(matches))

	for _, m := range matches {
		switch {
		case m[0] >= '0' && m[0] <= '9':
			v, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			tokens = append(tokens, Token{Kind: TokenNumber, Text: m, Value: v})
		case isIdentStart(m[0]):
			tokens = append(tokens, Token{Kind: TokenVariable, Text: m})
		case m == "(":
			tokens = append(tokens, Token{Kind: TokenLeftParen, Text: m})
		case m == ")":
			tokens = append(tokens, Token{Kind: TokenRightParen, Text: m})
		case m == "?":
			tokens = append(tokens, Token{Kind: TokenQuestion, Text: m})
		case m == ":":
			tokens = append(tokens, Token{Kind: TokenColon, Text: m})
		default:
			tokens = append(tokens, Token{Kind: TokenOperator, Text: m})
		}
	}
	return tokens
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
