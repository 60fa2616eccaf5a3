package sqlq

import (
	"github.com/hashicorp/go-hclog"
)

/*
In-memory evaluation, the counterpart of running the qualifier as a SQL
`where` clause. Every failure here is soft: logged and counted as "no
match". This matches how fetches behave, where a row that can't satisfy a
predicate is simply absent from the result.
*/

// Implement the `Evaluable` interface.
func (self BoolQual) EvaluateWith(any, hclog.Logger) bool {
	return bool(self)
}

// Implement the `Evaluable` interface.
func (self KeyValQual) EvaluateWith(obj any, log hclog.Logger) bool {
	rhs, ok := self.Val.(Val)
	if !ok {
		sink(log).Error(
			`can't evaluate qualifier with unresolved bindings`,
			`qualifier`, self.String(),
		)
		return false
	}

	lhs, ok := evalKey(self.Key, obj, log)
	if !ok {
		return false
	}
	return self.Op.Compare(lhs, rhs, log)
}

// Implement the `Evaluable` interface.
func (self KeyCompQual) EvaluateWith(obj any, log hclog.Logger) bool {
	lhs, ok := evalKey(self.Left, obj, log)
	if !ok {
		return false
	}
	rhs, ok := evalKey(self.Right, obj, log)
	if !ok {
		return false
	}
	return self.Op.Compare(lhs, rhs, log)
}

/*
Implement the `Evaluable` interface. Note that a non-evaluable inner
qualifier stays a non-match: the soft failure is NOT inverted into a match.
*/
func (self NotQual) EvaluateWith(obj any, log hclog.Logger) bool {
	impl, ok := evalChild(self[0], log)
	if !ok {
		return false
	}
	return !impl.EvaluateWith(obj, log)
}

/*
Implement the `Evaluable` interface. Short-circuits on the first non-match.
An empty conjunction matches everything. Hitting a non-evaluable child
aborts the whole conjunction as a non-match.
*/
func (self AndQual) EvaluateWith(obj any, log hclog.Logger) bool {
	for _, val := range self {
		impl, ok := evalChild(val, log)
		if !ok {
			return false
		}
		if !impl.EvaluateWith(obj, log) {
			return false
		}
	}
	return true
}

/*
Implement the `Evaluable` interface. Short-circuits on the first match. An
empty disjunction matches nothing. Hitting a non-evaluable child aborts the
whole disjunction as a non-match, even when a later child would match.
*/
func (self OrQual) EvaluateWith(obj any, log hclog.Logger) bool {
	for _, val := range self {
		impl, ok := evalChild(val, log)
		if !ok {
			return false
		}
		if impl.EvaluateWith(obj, log) {
			return true
		}
	}
	return false
}

func evalChild(val Qualifier, log hclog.Logger) (Evaluable, bool) {
	impl, _ := val.(Evaluable)
	if impl == nil {
		sink(log).Error(`qualifier does not support in-memory evaluation`, `qualifier`, val)
		return nil, false
	}
	return impl, true
}

/*
Looks up the key on the candidate object and normalizes the result for
comparison. Missing keys are indistinguishable from nil values, both
becoming NULL. Values outside the closed kind set are a soft failure.
*/
func evalKey(key Key, obj any, log hclog.Logger) (Val, bool) {
	if key == nil {
		return Val{}, true
	}

	val, err := ValOf(key.ValueFor(obj))
	if err != nil {
		sink(log).Error(
			`can't normalize candidate value for comparison`,
			`key`, key.Key(), `err`, err,
		)
		return Val{}, false
	}
	return val, true
}
