package yaml

import "github.com/yamlcore/yamlcore/internal/value"

// The error taxonomy (spec §7) lives in internal/value alongside Node, for
// the same import-cycle reason documented in node.go.
type (
	DomainError     = value.DomainError
	TypeError       = value.TypeError
	OutOfRangeError = value.OutOfRangeError
	ParseError      = value.ParseError
)
