package expr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdentifier
	tokenString
	tokenNumber
	tokenTrue
	tokenFalse
	tokenNull
	tokenPlus
	tokenMinus
	tokenComma
	tokenLParen
	tokenRParen
)

var tokenNames = map[tokenKind]string{
	tokenEOF:        "end of expression",
	tokenIdentifier: "identifier",
	tokenString:     "string",
	tokenNumber:     "number",
	tokenTrue:       "true",
	tokenFalse:      "false",
	tokenNull:       "null",
	tokenPlus:       `"+"`,
	tokenMinus:      `"-"`,
	tokenComma:      `","`,
	tokenLParen:     `"("`,
	tokenRParen:     `")"`,
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

type token struct {
	kind tokenKind
	raw  string
	// text holds the decoded literal for tokenString.
	text string
	pos  int
}

func tokenize(input string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])

		switch {
		case unicode.IsSpace(r):
			i += size
			continue
		case r == '+':
			tokens = append(tokens, token{kind: tokenPlus, raw: "+", pos: i})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokenMinus, raw: "-", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, raw: ",", pos: i})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")", pos: i})
			i++
		case r == '"' || r == '\'':
			tok, end, err := scanString(input, i)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, tok)
			i = end
		case isDigit(r):
			tok, end, err := scanNumber(input, i)
			if err != nil {
				return nil, err
			}

			tokens = append(tokens, tok)
			i = end
		case isIdentStart(r):
			end := i + size
			for end < len(input) {
				next, n := utf8.DecodeRuneInString(input[end:])
				if !isIdentStart(next) && !isDigit(next) {
					break
				}

				end += n
			}

			raw := input[i:end]
			tokens = append(tokens, token{kind: keyword(raw), raw: raw, pos: i})
			i = end
		default:
			return nil, errorf(i, "unexpected character %q", r)
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, pos: len(input)})

	return tokens, nil
}

func keyword(raw string) tokenKind {
	switch raw {
	case "true":
		return tokenTrue
	case "false":
		return tokenFalse
	case "null":
		return tokenNull
	default:
		return tokenIdentifier
	}
}

// scanString decodes a quoted literal starting at input[start]. Both quote
// styles accept the escapes \\ \' \" \n \r \t.
func scanString(input string, start int) (token, int, error) {
	quote := input[start]

	var sb strings.Builder

	for i := start + 1; i < len(input); i++ {
		c := input[i]

		switch c {
		case quote:
			end := i + 1
			return token{kind: tokenString, raw: input[start:end], text: sb.String(), pos: start}, end, nil
		case '\\':
			i++
			if i >= len(input) {
				return token{}, 0, errorf(start, "unterminated string literal")
			}

			switch input[i] {
			case '\\', '\'', '"':
				sb.WriteByte(input[i])
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return token{}, 0, errorf(i-1, "invalid escape \\%c", input[i])
			}
		default:
			sb.WriteByte(c)
		}
	}

	return token{}, 0, errorf(start, "unterminated string literal")
}

func scanNumber(input string, start int) (token, int, error) {
	end := start
	for end < len(input) && (isDigit(rune(input[end])) || input[end] == '.') {
		end++
	}

	if end < len(input) && (input[end] == 'e' || input[end] == 'E') {
		end++
		if end < len(input) && (input[end] == '+' || input[end] == '-') {
			end++
		}

		for end < len(input) && isDigit(rune(input[end])) {
			end++
		}
	}

	raw := input[start:end]
	if _, err := strconv.ParseFloat(raw, 64); err != nil {
		return token{}, 0, errorf(start, "invalid number %q", raw)
	}

	return token{kind: tokenNumber, raw: raw, pos: start}, end, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
