// Package dbsubst defines the text-variable substitution capability the resolver consults after
// line assembly (spec.md §6): an injected Expander may turn one logical Line into zero or more
// output lines. The real expander (a text-variable interpolator) lives outside this module's
// scope; callers that have none use NoOp, mirroring the small single-method capability interfaces
// used throughout the teacher's go-utils packages (e.g. status.UnderlyingLogger).
package dbsubst

// Expander turns one logical line into zero or more lines, after continuation assembly and before
// tag recognition.
type Expander interface {
	Expand(line string) []string
}

// NoOp is the default Expander: it passes every line through unchanged.
type NoOp struct{}

func (NoOp) Expand(line string) []string { return []string{line} }

// Func adapts a plain function to the Expander interface.
type Func func(line string) []string

func (f Func) Expand(line string) []string { return f(line) }
