package expr

import (
	"time"
)

// Env binds the inputs of one evaluation.
type Env struct {
	// Value is bound to the identifier value.
	Value any
	// Now backs getCurrentDate. A nil Now makes getCurrentDate fail.
	Now func() time.Time
}

// Program is a parsed expression. It is immutable and safe for concurrent use.
type Program struct {
	source string
	root   node
}

// Parse compiles src.
func Parse(src string) (*Program, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	root, err := parse(tokens)
	if err != nil {
		return nil, err
	}

	return &Program{source: src, root: root}, nil
}

// Eval evaluates the program in env.
func (p *Program) Eval(env Env) (any, error) {
	return p.root.eval(env)
}

func (p *Program) String() string {
	return p.source
}
