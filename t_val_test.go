package sqlq

import (
	"testing"
	"time"
)

func TestValOf(t *testing.T) {
	eq(t, Val{}, TryValOf(nil))
	eq(t, BoolVal(true), TryValOf(true))
	eq(t, IntVal(10), TryValOf(10))
	eq(t, IntVal(10), TryValOf(int32(10)))
	eq(t, IntVal(10), TryValOf(uint8(10)))
	eq(t, FloatVal(12.5), TryValOf(12.5))
	eq(t, FloatVal(12.5), TryValOf(float32(12.5)))
	eq(t, StrVal(`Duck`), TryValOf(`Duck`))
	eq(t, StrVal(`Duck`), TryValOf([]byte(`Duck`)))
	eq(t, ListVal(IntVal(1), IntVal(2)), TryValOf([]int{1, 2}))
	eq(t, ListVal(StrVal(`a`), IntVal(1)), TryValOf([]any{`a`, 1}))

	str := `Duck`
	eq(t, StrVal(`Duck`), TryValOf(&str))
	eq(t, Val{}, TryValOf((*string)(nil)))

	inst := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	eq(t, TimeVal(inst), TryValOf(inst))
}

func TestValOfUnsupported(t *testing.T) {
	panics(t, `unsupported value type`, func() { TryValOf(make(chan int)) })
	panics(t, `unsupported value type`, func() { TryValOf(Variable(`name`)) })
	panics(t, `unsupported value type`, func() { TryValOf(map[int]int{}) })
}

func TestValEqual(t *testing.T) {
	if !(Val{}).Equal(Val{}) {
		t.Fatalf(`expected two nulls to be equal`)
	}
	if !IntVal(10).Equal(FloatVal(10)) {
		t.Fatalf(`expected int and float with the same numeric value to be equal`)
	}
	if IntVal(10).Equal(StrVal(`10`)) {
		t.Fatalf(`expected int and string to be unequal`)
	}
	if !ListVal(IntVal(1), StrVal(`a`)).Equal(ListVal(IntVal(1), StrVal(`a`))) {
		t.Fatalf(`expected pairwise-equal lists to be equal`)
	}
	if ListVal(IntVal(1)).Equal(ListVal(IntVal(1), IntVal(2))) {
		t.Fatalf(`expected lists of different lengths to be unequal`)
	}
}

func TestValLess(t *testing.T) {
	type testCase struct {
		lhs  Val
		rhs  Val
		less bool
		ok   bool
	}

	cases := []testCase{
		{IntVal(1), IntVal(2), true, true},
		{IntVal(2), IntVal(1), false, true},
		{IntVal(1), FloatVal(1.5), true, true},
		{StrVal(`a`), StrVal(`b`), true, true},
		{
			TimeVal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
			TimeVal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)),
			true, true,
		},
		{BoolVal(true), BoolVal(false), false, false},
		{Val{}, IntVal(1), false, false},
		{StrVal(`a`), IntVal(1), false, false},
	}

	for _, tc := range cases {
		less, ok := tc.lhs.Less(tc.rhs)
		eq(t, tc.ok, ok)
		eq(t, tc.less, less)
	}
}

func TestValContains(t *testing.T) {
	list := ListVal(IntVal(1), IntVal(2), IntVal(3))

	found, ok := list.Contains(IntVal(2))
	eq(t, true, ok)
	eq(t, true, found)

	found, ok = list.Contains(IntVal(4))
	eq(t, true, ok)
	eq(t, false, found)

	_, ok = IntVal(1).Contains(IntVal(1))
	eq(t, false, ok)
}

func TestValLike(t *testing.T) {
	type testCase struct {
		str   string
		pat   string
		match bool
	}

	cases := []testCase{
		{`Duck`, `Duck`, true},
		{`Duck`, `D*`, true},
		{`Duck`, `*ck`, true},
		{`Duck`, `D?ck`, true},
		{`Duck`, `D?k`, false},
		{`Duck`, `*`, true},
		{``, `*`, true},
		{`Duckburg`, `*ck*rg`, true},
		{`Duck`, `duck`, false},
	}

	for _, tc := range cases {
		match, ok := StrVal(tc.str).Like(StrVal(tc.pat), false)
		eq(t, true, ok)
		if match != tc.match {
			t.Fatalf(`expected %q LIKE %q to be %v`, tc.str, tc.pat, tc.match)
		}
	}

	match, ok := StrVal(`DUCK`).Like(StrVal(`duck`), true)
	eq(t, true, ok)
	eq(t, true, match)

	_, ok = IntVal(1).Like(StrVal(`1`), false)
	eq(t, false, ok)
}

func TestValRender(t *testing.T) {
	testRender(t, `NULL`, Val{})
	testRender(t, `true`, BoolVal(true))
	testRender(t, `10`, IntVal(10))
	testRender(t, `12.5`, FloatVal(12.5))
	testRender(t, `3.0`, FloatVal(3))
	testRender(t, `'Duck'`, StrVal(`Duck`))
	testRender(t, `'Mc\'Duck'`, StrVal(`Mc'Duck`))
	testRender(t, `(1, 2, 3)`, ListVal(IntVal(1), IntVal(2), IntVal(3)))
	testRender(
		t,
		`'2021-03-04T05:06:07Z'`,
		TimeVal(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)),
	)
}
