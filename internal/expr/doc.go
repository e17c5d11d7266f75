// Package expr implements the expression language of "expression" mapping
// rules.
//
// An expression reads the rule's source value through the identifier value
// and combines literals, builtin calls and the + operator:
//
//	toUpper(value) + ' - OK'
//	concat(trim(value), "/", getCurrentDate())
//	coalesce(value, "unknown")
//
// The language has no loops, assignment or user-defined functions, so every
// program terminates. Parsing rejects unknown identifiers, unknown builtins and
// wrong arities up front; Eval only fails on runtime type errors.
package expr
