package sqlq

import (
	"sort"
)

/*
An unresolved `$name` placeholder in value position. Resolution via
`Qualifier.WithBindings` replaces it with a constant looked up in a
bindings object. Variables render as `$name`, so a partially-bound
qualifier still round-trips through the textual format.
*/
type Variable string

// Binding name, without the `$` prefix.
func (self Variable) Name() string { return string(self) }

// Implement the `Appender` interface.
func (self Variable) Append(text []byte) []byte {
	text = append(text, bindingPrefix)
	return append(text, self...)
}

// Implement the `fmt.Stringer` interface.
func (self Variable) String() string { return appenderToStr(self) }

/*
Constant-truth qualifier. `BoolQual(true)` matches everything,
`BoolQual(false)` matches nothing. Appears when parsing the literals
`*true*` / `*false*` and as the result of simplifications.
*/
type BoolQual bool

// Implement part of the `Qualifier` interface.
func (self BoolQual) ReferencedKeys() []string { return nil }

// Implement part of the `Qualifier` interface.
func (self BoolQual) BindingKeys() []string { return nil }

// Implement part of the `Qualifier` interface.
func (self BoolQual) HasUnresolvedBindings() bool { return false }

// Implement part of the `Qualifier` interface. Nothing to resolve.
func (self BoolQual) WithBindings(any, bool) (Qualifier, error) {
	return self, nil
}

// Implement the `Appender` interface.
func (self BoolQual) Append(text []byte) []byte {
	if self {
		return append(text, `*true*`...)
	}
	return append(text, `*false*`...)
}

// Implement the `fmt.Stringer` interface.
func (self BoolQual) String() string { return appenderToStr(self) }

/*
Compares the value at a key against a constant or an unresolved variable.
`Val` holds either a `sqlq.Val` or a `Variable`; use the `KeyVal` /
`KeyOpVal` constructors to get the normalization for free.
*/
type KeyValQual struct {
	Key Key
	Op  Operation
	Val any
}

// Implement part of the `Qualifier` interface.
func (self KeyValQual) ReferencedKeys() []string {
	if self.Key == nil {
		return nil
	}
	return []string{self.Key.Key()}
}

// Implement part of the `Qualifier` interface.
func (self KeyValQual) BindingKeys() []string {
	impl, ok := self.Val.(Variable)
	if ok {
		return []string{impl.Name()}
	}
	return nil
}

// Implement part of the `Qualifier` interface.
func (self KeyValQual) HasUnresolvedBindings() bool {
	_, ok := self.Val.(Variable)
	return ok
}

// Implement part of the `Qualifier` interface.
func (self KeyValQual) WithBindings(bindings any, requiresAll bool) (Qualifier, error) {
	val, changed, err := resolveQualVal(self.Val, bindings, requiresAll)
	if err != nil {
		return nil, err
	}
	if !changed {
		return self, nil
	}
	return KeyValQual{self.Key, self.Op, val}, nil
}

// Implement the `Appender` interface.
func (self KeyValQual) Append(text []byte) []byte {
	text = appendKey(text, self.Key)
	text = append(text, ` `...)
	text = self.Op.Append(text)
	text = append(text, ` `...)
	return appendQualVal(text, self.Val)
}

// Implement the `fmt.Stringer` interface.
func (self KeyValQual) String() string { return appenderToStr(self) }

/*
Compares the values at two keys of the same candidate object, as in
`price > discountedPrice`. Both sides are keys; there is nothing to bind.
*/
type KeyCompQual struct {
	Left  Key
	Op    Operation
	Right Key
}

// Implement part of the `Qualifier` interface.
func (self KeyCompQual) ReferencedKeys() []string {
	var out []string
	if self.Left != nil {
		out = append(out, self.Left.Key())
	}
	if self.Right != nil {
		out = append(out, self.Right.Key())
	}
	return out
}

// Implement part of the `Qualifier` interface.
func (self KeyCompQual) BindingKeys() []string { return nil }

// Implement part of the `Qualifier` interface.
func (self KeyCompQual) HasUnresolvedBindings() bool { return false }

// Implement part of the `Qualifier` interface. Nothing to resolve.
func (self KeyCompQual) WithBindings(any, bool) (Qualifier, error) {
	return self, nil
}

// Implement the `Appender` interface.
func (self KeyCompQual) Append(text []byte) []byte {
	text = appendKey(text, self.Left)
	text = append(text, ` `...)
	text = self.Op.Append(text)
	text = append(text, ` `...)
	return appendKey(text, self.Right)
}

// Implement the `fmt.Stringer` interface.
func (self KeyCompQual) String() string { return appenderToStr(self) }

// Negates the inner qualifier. Use the `Not` constructor, which collapses
// double negation.
type NotQual [1]Qualifier

// The negated qualifier.
func (self NotQual) Get() Qualifier { return self[0] }

// Implement part of the `Qualifier` interface.
func (self NotQual) ReferencedKeys() []string {
	if self[0] == nil {
		return nil
	}
	return self[0].ReferencedKeys()
}

// Implement part of the `Qualifier` interface.
func (self NotQual) BindingKeys() []string {
	if self[0] == nil {
		return nil
	}
	return self[0].BindingKeys()
}

// Implement part of the `Qualifier` interface.
func (self NotQual) HasUnresolvedBindings() bool {
	return self[0] != nil && self[0].HasUnresolvedBindings()
}

// Implement part of the `Qualifier` interface.
func (self NotQual) WithBindings(bindings any, requiresAll bool) (Qualifier, error) {
	if self[0] == nil {
		return self, nil
	}
	inner, err := self[0].WithBindings(bindings, requiresAll)
	if err != nil {
		return nil, err
	}
	if sameQual(inner, self[0]) {
		return self, nil
	}
	return NotQual{inner}, nil
}

/*
Implement the `Appender` interface. Key-based arguments render bare
(`NOT key = value`); everything else is parenthesized.
*/
func (self NotQual) Append(text []byte) []byte {
	switch self[0].(type) {
	case KeyValQual, KeyCompQual:
		text = append(text, `NOT `...)
		return self[0].Append(text)
	default:
		text = append(text, `NOT (`...)
		text = appendQual(text, self[0])
		return append(text, `)`...)
	}
}

// Implement the `fmt.Stringer` interface.
func (self NotQual) String() string { return appenderToStr(self) }

// Conjunction of sub-qualifiers. Use the `And` constructor, which flattens
// and simplifies.
type AndQual []Qualifier

// Implement part of the `Qualifier` interface.
func (self AndQual) ReferencedKeys() []string { return qualsReferencedKeys(self) }

// Implement part of the `Qualifier` interface.
func (self AndQual) BindingKeys() []string { return qualsBindingKeys(self) }

// Implement part of the `Qualifier` interface.
func (self AndQual) HasUnresolvedBindings() bool { return qualsHaveUnresolved(self) }

// Implement part of the `Qualifier` interface.
func (self AndQual) WithBindings(bindings any, requiresAll bool) (Qualifier, error) {
	out, changed, err := qualsWithBindings(self, bindings, requiresAll)
	if err != nil {
		return nil, err
	}
	if !changed {
		return self, nil
	}
	return AndQual(out), nil
}

// Implement the `Appender` interface.
func (self AndQual) Append(text []byte) []byte {
	return appendCompound(text, self, ` AND `, `*true*`)
}

// Implement the `fmt.Stringer` interface.
func (self AndQual) String() string { return appenderToStr(self) }

// Disjunction of sub-qualifiers. Use the `Or` constructor, which flattens
// and simplifies.
type OrQual []Qualifier

// Implement part of the `Qualifier` interface.
func (self OrQual) ReferencedKeys() []string { return qualsReferencedKeys(self) }

// Implement part of the `Qualifier` interface.
func (self OrQual) BindingKeys() []string { return qualsBindingKeys(self) }

// Implement part of the `Qualifier` interface.
func (self OrQual) HasUnresolvedBindings() bool { return qualsHaveUnresolved(self) }

// Implement part of the `Qualifier` interface.
func (self OrQual) WithBindings(bindings any, requiresAll bool) (Qualifier, error) {
	out, changed, err := qualsWithBindings(self, bindings, requiresAll)
	if err != nil {
		return nil, err
	}
	if !changed {
		return self, nil
	}
	return OrQual(out), nil
}

// Implement the `Appender` interface.
func (self OrQual) Append(text []byte) []byte {
	return appendCompound(text, self, ` OR `, `*false*`)
}

// Implement the `fmt.Stringer` interface.
func (self OrQual) String() string { return appenderToStr(self) }

/*
Shortcut for the common `key = value` qualifier. The key may be a dotted
path. The value is normalized via `ValOf` unless it's a `Variable`; panics
on values that can't be normalized.
*/
func KeyVal(key string, val any) KeyValQual {
	return KeyOpVal(key, OpEq, val)
}

// Same as `KeyVal` with an explicit operation.
func KeyOpVal(key string, op Operation, val any) KeyValQual {
	return KeyValQual{KeyFrom(key), op, normQualVal(val)}
}

// Shortcut for comparing two keys of the same object.
func KeyComp(left string, op Operation, right string) KeyCompQual {
	return KeyCompQual{KeyFrom(left), op, KeyFrom(right)}
}

/*
Conjunction constructor. Drops nils, flattens nested `AndQual`, and
simplifies boolean constants: AND with false short-circuits to false, AND
with true is identity. Zero remaining operands produce nil (no
restriction), one is returned as-is.
*/
func And(vals ...Qualifier) Qualifier {
	src := flattenQuals(nil, vals, isAnd)

	out := src[:0]
	var droppedBool bool
	for _, val := range src {
		con, ok := val.(BoolQual)
		if ok {
			if !con {
				return BoolQual(false)
			}
			droppedBool = true
			continue
		}
		out = append(out, val)
	}

	switch len(out) {
	case 0:
		if droppedBool {
			return BoolQual(true)
		}
		return nil
	case 1:
		return out[0]
	default:
		return AndQual(out)
	}
}

// Disjunction constructor, the counterpart of `And`: OR with true
// short-circuits to true, OR with false is identity.
func Or(vals ...Qualifier) Qualifier {
	src := flattenQuals(nil, vals, isOr)

	out := src[:0]
	var droppedBool bool
	for _, val := range src {
		con, ok := val.(BoolQual)
		if ok {
			if con {
				return BoolQual(true)
			}
			droppedBool = true
			continue
		}
		out = append(out, val)
	}

	switch len(out) {
	case 0:
		if droppedBool {
			return BoolQual(false)
		}
		return nil
	case 1:
		return out[0]
	default:
		return OrQual(out)
	}
}

/*
Negation constructor. Nil stays nil, `BoolQual` is inverted in place,
double negation collapses to the original qualifier.
*/
func Not(val Qualifier) Qualifier {
	switch val := val.(type) {
	case nil:
		return nil
	case BoolQual:
		return !val
	case NotQual:
		return val.Get()
	default:
		return NotQual{val}
	}
}

/*
Conjunction of `key = value` for every entry of the input. Keys are sorted,
making the output deterministic regardless of map iteration order. Values
follow `KeyVal` normalization rules.
*/
func MatchAll(vals map[string]any) Qualifier {
	return matchEvery(vals, And)
}

// Disjunction counterpart of `MatchAll`.
func MatchAny(vals map[string]any) Qualifier {
	return matchEvery(vals, Or)
}

/*
Merges a disjunction's same-key equality tests into membership tests:

	a = 1 OR a = 2 OR b = 3  →  a IN (1, 2) OR b = 3

Operates only on `OrQual` inputs; anything else is returned unchanged.
Sub-qualifiers other than constant `=` tests, including ones with
unresolved variables, are preserved as-is. Ordering follows the first
occurrence of each key.
*/
func CompactOr(val Qualifier) Qualifier {
	src, ok := val.(OrQual)
	if !ok {
		return val
	}

	type group struct {
		ind  int
		key  Key
		vals []Val
	}

	var groups []*group
	inds := map[string]*group{}
	rest := make([]Qualifier, len(src))

	for ind, sub := range src {
		kv, ok := sub.(KeyValQual)
		if !ok || kv.Op != OpEq || kv.Key == nil {
			rest[ind] = sub
			continue
		}
		con, ok := kv.Val.(Val)
		if !ok {
			rest[ind] = sub
			continue
		}

		prev := inds[kv.Key.Key()]
		if prev == nil {
			prev = &group{ind: ind, key: kv.Key}
			inds[kv.Key.Key()] = prev
			groups = append(groups, prev)
		}
		prev.vals = append(prev.vals, con)
	}

	out := make([]Qualifier, 0, len(src))
	grouped := map[int]*group{}
	for _, grp := range groups {
		grouped[grp.ind] = grp
	}

	for ind, sub := range rest {
		if sub != nil {
			out = append(out, sub)
			continue
		}
		grp := grouped[ind]
		if grp == nil {
			// Non-first occurrence of a grouped key.
			continue
		}
		if len(grp.vals) == 1 {
			out = append(out, KeyValQual{grp.key, OpEq, grp.vals[0]})
			continue
		}
		out = append(out, KeyValQual{grp.key, OpIn, ListVal(grp.vals...)})
	}

	return Or(out...)
}

func matchEvery(vals map[string]any, comb func(...Qualifier) Qualifier) Qualifier {
	keys := make([]string, 0, len(vals))
	for key := range vals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	quals := make([]Qualifier, 0, len(keys))
	for _, key := range keys {
		quals = append(quals, KeyVal(key, vals[key]))
	}
	return comb(quals...)
}

func isAnd(val Qualifier) []Qualifier {
	impl, _ := val.(AndQual)
	return impl
}

func isOr(val Qualifier) []Qualifier {
	impl, _ := val.(OrQual)
	return impl
}

func flattenQuals(out []Qualifier, src []Qualifier, inner func(Qualifier) []Qualifier) []Qualifier {
	for _, val := range src {
		if val == nil {
			continue
		}
		sub := inner(val)
		if sub != nil {
			out = flattenQuals(out, sub, inner)
			continue
		}
		out = append(out, val)
	}
	return out
}

func normQualVal(src any) any {
	impl, ok := src.(Variable)
	if ok {
		return impl
	}
	return TryValOf(src)
}

func resolveQualVal(src any, bindings any, requiresAll bool) (any, bool, error) {
	impl, ok := src.(Variable)
	if !ok {
		return src, false, nil
	}

	val, found := ValueForKeyPath(bindings, impl.Name())
	if !found {
		if requiresAll {
			return nil, false, errMissingBinding(impl.Name())
		}
		return src, false, nil
	}

	out, err := ValOf(val)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func appendQualVal(text []byte, val any) []byte {
	switch val := val.(type) {
	case Variable:
		return val.Append(text)
	case Val:
		return val.Append(text)
	case nil:
		return append(text, `NULL`...)
	default:
		// Not reachable through the constructors.
		return Val{}.Append(text)
	}
}

func appendKey(text []byte, val Key) []byte {
	if val == nil {
		return text
	}
	return val.Append(text)
}

func appendQual(text []byte, val Qualifier) []byte {
	if val == nil {
		return append(text, `*true*`...)
	}
	return val.Append(text)
}

/*
Compound rendering: the compound itself renders bare, while nested
compounds are parenthesized, preserving grouping through a reparse.
*/
func appendCompound(text []byte, vals []Qualifier, sep string, empty string) []byte {
	if len(vals) == 0 {
		return append(text, empty...)
	}

	for ind, val := range vals {
		if ind > 0 {
			text = append(text, sep...)
		}
		switch val.(type) {
		case AndQual, OrQual:
			text = append(text, `(`...)
			text = appendQual(text, val)
			text = append(text, `)`...)
		default:
			text = appendQual(text, val)
		}
	}
	return text
}

func qualsReferencedKeys(vals []Qualifier) []string {
	var out []string
	for _, val := range vals {
		if val != nil {
			out = append(out, val.ReferencedKeys()...)
		}
	}
	return out
}

func qualsBindingKeys(vals []Qualifier) []string {
	var out []string
	for _, val := range vals {
		if val != nil {
			out = append(out, val.BindingKeys()...)
		}
	}
	return out
}

func qualsHaveUnresolved(vals []Qualifier) bool {
	for _, val := range vals {
		if val != nil && val.HasUnresolvedBindings() {
			return true
		}
	}
	return false
}

func qualsWithBindings(vals []Qualifier, bindings any, requiresAll bool) ([]Qualifier, bool, error) {
	var changed bool
	out := make([]Qualifier, len(vals))

	for ind, val := range vals {
		if val == nil {
			continue
		}
		sub, err := val.WithBindings(bindings, requiresAll)
		if err != nil {
			return nil, false, err
		}
		out[ind] = sub
		if !sameQual(sub, val) {
			changed = true
		}
	}
	return out, changed, nil
}

/*
Identity check for "did `WithBindings` change anything". Comparing
interfaces with `==` would panic on non-comparable dynamic types such as
slices, so compare via a comparable surrogate.
*/
func sameQual(one, two Qualifier) bool {
	if one == nil || two == nil {
		return one == nil && two == nil
	}
	return appenderToStr(one) == appenderToStr(two)
}
