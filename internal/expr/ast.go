package expr

import (
	"docmapper/internal/transform"
)

type node interface {
	eval(env Env) (any, error)
}

type literalNode struct {
	value any
}

func (n literalNode) eval(Env) (any, error) {
	return n.value, nil
}

type valueNode struct{}

func (valueNode) eval(env Env) (any, error) {
	return env.Value, nil
}

type negNode struct {
	inner node
	pos   int
}

func (n negNode) eval(env Env) (any, error) {
	v, err := n.inner.eval(env)
	if err != nil {
		return nil, err
	}

	f, ok := transform.Number(v)
	if !ok {
		return nil, &Error{Pos: n.pos, Msg: "cannot negate " + typeName(v), Err: transform.ErrTypeMismatch}
	}

	return -f, nil
}

// addNode concatenates when either operand is text and adds numbers.
type addNode struct {
	left  node
	right node
	pos   int
}

func (n addNode) eval(env Env) (any, error) {
	l, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}

	r, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	_, lText := l.(string)
	_, rText := r.(string)

	if lText || rText {
		return transform.Text(l) + transform.Text(r), nil
	}

	lf, lNum := transform.Number(l)
	rf, rNum := transform.Number(r)

	if lNum && rNum {
		return lf + rf, nil
	}

	return nil, &Error{
		Pos: n.pos,
		Msg: "cannot add " + typeName(l) + " and " + typeName(r),
		Err: transform.ErrTypeMismatch,
	}
}

type callNode struct {
	fn   *builtin
	args []node
	pos  int
}

func (n callNode) eval(env Env) (any, error) {
	args := make([]any, len(n.args))

	for i, arg := range n.args {
		v, err := arg.eval(env)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	out, err := n.fn.call(env, args)
	if err != nil {
		return nil, &Error{Pos: n.pos, Msg: n.fn.name + ": " + err.Error(), Err: err}
	}

	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}

	if _, ok := transform.Number(v); ok {
		return "number"
	}

	return "value"
}
