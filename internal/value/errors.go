package value

import "strconv"

// DomainError is a generic domain failure: null source bytes, an empty
// source where a document is required, or an internal invariant violation
// that should never fire on accepted input (spec §7).
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return "yaml: " + e.Msg }

// TypeError reports programmatic misuse of the value model: asking a node
// of the wrong kind for a typed value, indexing a scalar, comparing
// iterators of different container kinds.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return "yaml: " + e.Msg }

// OutOfRangeError reports indexing past a container's bounds, an absent
// key looked up with At, or a numeric coercion overflow.
type OutOfRangeError struct {
	Msg string
}

func (e *OutOfRangeError) Error() string { return "yaml: " + e.Msg }

// ParseError reports malformed YAML input. Errors raised while scanning or
// composing a construct carry the source position at which the problem was
// detected; errors with no position (excess content after the first
// document, a tag that does not fit its scalar) leave Line and Column zero.
type ParseError struct {
	Line, Column int
	Reason       string
}

func (e *ParseError) Error() string {
	if e.Line == 0 && e.Column == 0 {
		return "yaml: " + e.Reason
	}
	return "yaml: line " + strconv.Itoa(e.Line) + ", column " + strconv.Itoa(e.Column) + ": " + e.Reason
}
