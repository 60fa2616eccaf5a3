package sqlq

import (
	"github.com/hashicorp/go-hclog"
)

/*
A predicate node restricting which records match a fetch. The built-in
variants are `BoolQual`, `KeyValQual`, `KeyCompQual`, `NotQual`, `AndQual`,
`OrQual`, `RawQual`. The set is deliberately open: external code may
implement this interface to define custom variants, which compose freely
with the built-in ones.

Qualifiers are immutable values. `WithBindings` returns a new tree; it never
mutates the receiver. A qualifier that has nothing to resolve must return
itself unchanged, allowing callers to detect "did anything change".

The `Append`/`String` rendering is the canonical qualifier format: feeding
it back to `Parse` produces an equal qualifier, modulo the documented
order-sensitivity of compound equality.
*/
type Qualifier interface {
	Appender

	// Canonical qualifier-format rendering. Use `fmt.GoStringer` via "%#v"
	// for a debug rendering instead.
	String() string

	// All keys referenced by this qualifier and its sub-qualifiers, in
	// traversal order, possibly with duplicates.
	ReferencedKeys() []string

	// Names of all `$name` variables that remain unresolved, in traversal
	// order, possibly with duplicates.
	BindingKeys() []string

	// True if any `$name` variable remains unresolved.
	HasUnresolvedBindings() bool

	/*
		Returns a new qualifier with `$name` variables substituted by values
		looked up in the bindings object via key-value lookup (see
		`ValueForKeyPath`). When `requiresAll` is true, a missing binding is an
		`ErrMissingBinding`. When false, missing bindings are tolerated: the
		affected variables stay unresolved and the partially-bound qualifier
		structure is preserved, never dropped. If nothing changed, returns the
		receiver as-is.
	*/
	WithBindings(bindings any, requiresAll bool) (Qualifier, error)
}

/*
Optional extension for `Qualifier`: support for in-memory evaluation against
an arbitrary candidate object via key-value lookup. Implemented by all
built-in variants except `RawQual`, whose meaning is known only to a SQL
backend.

Evaluation is a soft path: failures (unresolved variables, unsupported
comparisons, non-evaluable sub-qualifiers) are reported to the logger and
count as "no match". They never panic and never return errors.
*/
type Evaluable interface {
	Qualifier
	EvaluateWith(obj any, log hclog.Logger) bool
}

/*
Appends a text representation. Sometimes allows better efficiency than
`fmt.Stringer`. Implemented by all `Qualifier` and `Key` types in this
package.
*/
type Appender interface {
	Append([]byte) []byte
}

/*
Evaluates the qualifier against the candidate object, reporting soft
failures to the logger. Qualifiers that don't implement `Evaluable`
conservatively evaluate to false, with a logged error. A nil logger
discards diagnostics.
*/
func Evaluate(val Qualifier, obj any, log hclog.Logger) bool {
	impl, _ := val.(Evaluable)
	if impl == nil {
		sink(log).Error(`qualifier does not support in-memory evaluation`, `qualifier`, val)
		return false
	}
	return impl.EvaluateWith(obj, log)
}

var nullLogger = hclog.NewNullLogger()

func sink(log hclog.Logger) hclog.Logger {
	if log == nil {
		return nullLogger
	}
	return log
}
