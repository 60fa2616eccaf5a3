package sqlq

import "testing"

func TestQualRender(t *testing.T) {
	testRender(t, `*true*`, BoolQual(true))
	testRender(t, `*false*`, BoolQual(false))
	testRender(t, `lastname = 'Duck'`, KeyVal(`lastname`, `Duck`))
	testRender(t, `age >= 18`, KeyOpVal(`age`, OpGtEq, 18))
	testRender(t, `firstname = $fn`, KeyOpVal(`firstname`, OpEq, Variable(`fn`)))
	testRender(t, `address.city = 'Duckburg'`, KeyVal(`address.city`, `Duckburg`))
	testRender(t, `price > discountedPrice`, KeyComp(`price`, OpGt, `discountedPrice`))
	testRender(t, `id IN (1, 2, 3)`, KeyOpVal(`id`, OpIn, []int{1, 2, 3}))
	testRender(t, `deletedAt = NULL`, KeyVal(`deletedAt`, nil))
}

func TestNotQualRender(t *testing.T) {
	// Key-based arguments render bare, everything else parenthesized.
	testRender(t, `NOT archived = true`, NotQual{KeyVal(`archived`, true)})
	testRender(t, `NOT a = b`, NotQual{KeyComp(`a`, OpEq, `b`)})
	testRender(
		t,
		`NOT (a = 1 AND b = 2)`,
		NotQual{AndQual{KeyVal(`a`, 1), KeyVal(`b`, 2)}},
	)
}

func TestCompoundRender(t *testing.T) {
	testRender(
		t,
		`a = 1 AND b = 2`,
		AndQual{KeyVal(`a`, 1), KeyVal(`b`, 2)},
	)
	testRender(
		t,
		`(a = 1 AND b = 2) OR c = 3`,
		OrQual{AndQual{KeyVal(`a`, 1), KeyVal(`b`, 2)}, KeyVal(`c`, 3)},
	)
	testRender(
		t,
		`a = 1 OR (b = 2 AND c = 3)`,
		OrQual{KeyVal(`a`, 1), AndQual{KeyVal(`b`, 2), KeyVal(`c`, 3)}},
	)
	testRender(t, `*true*`, AndQual{})
	testRender(t, `*false*`, OrQual{})
}

func TestAndSimplification(t *testing.T) {
	qual := KeyVal(`a`, 1)

	eq(t, nil, And())
	eq(t, Qualifier(qual), And(qual))
	eq(t, Qualifier(qual), And(nil, qual, nil))
	eq(t, Qualifier(qual), And(BoolQual(true), qual))
	eq(t, Qualifier(BoolQual(false)), And(BoolQual(false), qual))
	eq(t, Qualifier(BoolQual(true)), And(BoolQual(true)))
}

func TestOrSimplification(t *testing.T) {
	qual := KeyVal(`a`, 1)

	eq(t, nil, Or())
	eq(t, Qualifier(qual), Or(qual))
	eq(t, Qualifier(BoolQual(true)), Or(BoolQual(true), qual))
	eq(t, Qualifier(qual), Or(BoolQual(false), qual))
	eq(t, Qualifier(BoolQual(false)), Or(BoolQual(false)))
}

func TestCompoundFlattening(t *testing.T) {
	a := KeyVal(`a`, 1)
	b := KeyVal(`b`, 2)
	c := KeyVal(`c`, 3)

	eq(
		t,
		Qualifier(AndQual{a, b, c}),
		And(And(a, b), c),
	)
	eq(
		t,
		Qualifier(OrQual{a, b, c}),
		Or(a, Or(b, c)),
	)

	// Mixed operators must NOT flatten.
	eq(
		t,
		Qualifier(AndQual{OrQual{a, b}, c}),
		And(Or(a, b), c),
	)
}

func TestNot(t *testing.T) {
	qual := KeyVal(`a`, 1)

	eq(t, nil, Not(nil))
	eq(t, Qualifier(NotQual{qual}), Not(qual))
	eq(t, Qualifier(qual), Not(Not(qual)))
	eq(t, Qualifier(BoolQual(false)), Not(BoolQual(true)))
}

func TestMatchAll(t *testing.T) {
	qual := MatchAll(map[string]any{
		`lastname`:  `Duck`,
		`firstname`: `Donald`,
	})

	// Keys are sorted: the output doesn't depend on map iteration order.
	eq(
		t,
		Qualifier(AndQual{
			KeyVal(`firstname`, `Donald`),
			KeyVal(`lastname`, `Duck`),
		}),
		qual,
	)

	eq(t, Qualifier(KeyVal(`a`, 1)), MatchAll(map[string]any{`a`: 1}))
	eq(t, nil, MatchAll(nil))
}

func TestMatchAny(t *testing.T) {
	eq(
		t,
		Qualifier(OrQual{
			KeyVal(`firstname`, `Donald`),
			KeyVal(`lastname`, `Duck`),
		}),
		MatchAny(map[string]any{
			`lastname`:  `Duck`,
			`firstname`: `Donald`,
		}),
	)
}

func TestCompactOr(t *testing.T) {
	src := OrQual{
		KeyVal(`firstname`, `Donald`),
		KeyVal(`firstname`, `Daisy`),
		KeyVal(`city`, `Duckburg`),
	}

	eq(
		t,
		Qualifier(OrQual{
			KeyOpVal(`firstname`, OpIn, []string{`Donald`, `Daisy`}),
			KeyVal(`city`, `Duckburg`),
		}),
		CompactOr(src),
	)
}

func TestCompactOrPreservesNonMergeable(t *testing.T) {
	// Variables and non-equality tests are left alone.
	src := OrQual{
		KeyVal(`a`, 1),
		KeyOpVal(`a`, OpEq, Variable(`bound`)),
		KeyOpVal(`a`, OpGt, 10),
		KeyVal(`a`, 2),
	}

	eq(
		t,
		Qualifier(OrQual{
			KeyOpVal(`a`, OpIn, []int{1, 2}),
			KeyOpVal(`a`, OpEq, Variable(`bound`)),
			KeyOpVal(`a`, OpGt, 10),
		}),
		CompactOr(src),
	)

	// Non-disjunctions pass through unchanged.
	eq(t, Qualifier(KeyVal(`a`, 1)), CompactOr(KeyVal(`a`, 1)))
}

func TestReferencedKeys(t *testing.T) {
	qual := AndQual{
		KeyVal(`lastname`, `Duck`),
		NotQual{KeyComp(`a`, OpEq, `b`)},
		OrQual{KeyVal(`address.city`, `Duckburg`)},
	}
	eq(t, []string{`lastname`, `a`, `b`, `address.city`}, qual.ReferencedKeys())

	eq(t, []string(nil), BoolQual(true).ReferencedKeys())
	eq(t, []string(nil), RawSQL(`a = $b`).ReferencedKeys())
}

func TestBindingKeys(t *testing.T) {
	qual := AndQual{
		KeyOpVal(`lastname`, OpEq, Variable(`ln`)),
		KeyVal(`firstname`, `Donald`),
		RawSQL(`age > $minAge`),
	}
	eq(t, []string{`ln`, `minAge`}, qual.BindingKeys())
	eq(t, true, qual.HasUnresolvedBindings())

	resolved := AndQual{KeyVal(`a`, 1), KeyComp(`b`, OpEq, `c`)}
	eq(t, []string(nil), resolved.BindingKeys())
	eq(t, false, resolved.HasUnresolvedBindings())
}
