package sqlq

import "testing"

func TestValueForKeyMap(t *testing.T) {
	val, ok := ValueForKey(Dict{`one`: 10}, `one`)
	eq(t, true, ok)
	eq(t, 10, val)

	_, ok = ValueForKey(Dict{`one`: 10}, `two`)
	eq(t, false, ok)

	// A found key may hold nil; that's distinct from a miss.
	val, ok = ValueForKey(Dict{`one`: nil}, `one`)
	eq(t, true, ok)
	eq(t, nil, val)

	// Any map with string-ish keys works.
	type strMap map[string]int
	val, ok = ValueForKey(strMap{`one`: 10}, `one`)
	eq(t, true, ok)
	eq(t, 10, val)

	_, ok = ValueForKey(map[int]int{1: 10}, `1`)
	eq(t, false, ok)
}

func TestValueForKeyStruct(t *testing.T) {
	// "db" tag match.
	val, ok := ValueForKey(testDonald, `lastname`)
	eq(t, true, ok)
	eq(t, `Duck`, val)

	// Field name match.
	val, ok = ValueForKey(testDonald, `Lastname`)
	eq(t, true, ok)
	eq(t, `Duck`, val)

	// Method fallback for computed attributes.
	val, ok = ValueForKey(testDonald, `fullname`)
	eq(t, true, ok)
	eq(t, `Donald Duck`, val)

	_, ok = ValueForKey(testDonald, `missing`)
	eq(t, false, ok)
}

func TestValueForKeyPointer(t *testing.T) {
	val, ok := ValueForKey(&testDonald, `lastname`)
	eq(t, true, ok)
	eq(t, `Duck`, val)

	_, ok = ValueForKey((*Person)(nil), `lastname`)
	eq(t, false, ok)

	_, ok = ValueForKey(nil, `lastname`)
	eq(t, false, ok)
}

func TestValueForKeyPath(t *testing.T) {
	val, ok := ValueForKeyPath(testDonald, `address.city`)
	eq(t, true, ok)
	eq(t, `Duckburg`, val)

	obj := Dict{`person`: testDonald}
	val, ok = ValueForKeyPath(obj, `person.address.city`)
	eq(t, true, ok)
	eq(t, `Duckburg`, val)

	_, ok = ValueForKeyPath(obj, `person.address.country`)
	eq(t, false, ok)

	_, ok = ValueForKeyPath(obj, `missing.address.city`)
	eq(t, false, ok)

	// Single-component paths degrade to plain key lookup.
	val, ok = ValueForKeyPath(testDonald, `lastname`)
	eq(t, true, ok)
	eq(t, `Duck`, val)
}
