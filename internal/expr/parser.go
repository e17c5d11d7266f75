package expr

import (
	"strconv"

	"docmapper/internal/match"
)

// MaxDepth bounds the nesting of parentheses, calls and unary minus.
const MaxDepth = 64

// valueIdent is the only identifier an expression may reference.
const valueIdent = "value"

type parser struct {
	tokens []token
	pos    int
	depth  int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) match(kind tokenKind) bool {
	if p.peek().kind != kind {
		return false
	}

	p.pos++

	return true
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, unexpected(tok, kind.String())
	}

	p.pos++

	return tok, nil
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > MaxDepth {
		return errorf(pos, "expression nested deeper than %d levels", MaxDepth)
	}

	return nil
}

func (p *parser) leave() {
	p.depth--
}

func unexpected(tok token, want string) *Error {
	if tok.kind == tokenEOF {
		return errorf(tok.pos, "unexpected end of expression, expected %s", want)
	}

	switch tok.kind {
	case tokenIdentifier, tokenString, tokenNumber:
		return errorf(tok.pos, "unexpected %s %s, expected %s", tok.kind, tok.raw, want)
	default:
		return errorf(tok.pos, "unexpected %s, expected %s", tok.kind, want)
	}
}

func parse(tokens []token) (node, error) {
	p := &parser{tokens: tokens}

	root, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, unexpected(tok, "end of expression")
	}

	return root, nil
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.peek().kind == tokenPlus {
		op := p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = addNode{left: left, right: right, pos: op.pos}
	}

	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if tok := p.peek(); tok.kind == tokenMinus {
		p.next()

		if err := p.enter(tok.pos); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return negNode{inner: inner, pos: tok.pos}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()

	switch tok.kind {
	case tokenString:
		return literalNode{value: tok.text}, nil
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.raw, 64)
		if err != nil {
			return nil, errorf(tok.pos, "invalid number %q", tok.raw)
		}

		return literalNode{value: f}, nil
	case tokenTrue:
		return literalNode{value: true}, nil
	case tokenFalse:
		return literalNode{value: false}, nil
	case tokenNull:
		return literalNode{value: nil}, nil
	case tokenLParen:
		if err := p.enter(tok.pos); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}

		return inner, nil
	case tokenIdentifier:
		if p.peek().kind == tokenLParen {
			return p.parseCall(tok)
		}

		if tok.raw != valueIdent {
			return nil, &Error{
				Pos:         tok.pos,
				Msg:         "unknown identifier " + strconv.Quote(tok.raw),
				Suggestions: match.Suggest(tok.raw, []string{valueIdent}, 1),
			}
		}

		return valueNode{}, nil
	default:
		return nil, unexpected(tok, "a value")
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := builtins[name.raw]
	if !ok {
		return nil, &Error{
			Pos:         name.pos,
			Msg:         "unknown function " + strconv.Quote(name.raw),
			Suggestions: match.Suggest(name.raw, Builtins(), 2),
		}
	}

	open := p.next()
	if err := p.enter(open.pos); err != nil {
		return nil, err
	}
	defer p.leave()

	var args []node

	if !p.match(tokenRParen) {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)

			if p.match(tokenComma) {
				continue
			}

			if _, err := p.expect(tokenRParen); err != nil {
				return nil, err
			}

			break
		}
	}

	if err := fn.checkArity(len(args)); err != nil {
		return nil, errorf(name.pos, "%s: %s", fn.name, err)
	}

	return callNode{fn: fn, args: args, pos: name.pos}, nil
}
