package sqlq

import (
	"errors"
	"testing"
)

func TestSQLTemplate(t *testing.T) {
	qual, err := SQLTemplate(`age > :minAge and fulltext @@ :query`)
	if err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}

	eq(
		t,
		RawQual{[]SQLPart{
			{Text: `age > `},
			{Name: `minAge`},
			{Text: ` and fulltext @@ `},
			{Name: `query`},
		}},
		qual,
	)
	eq(t, []string{`minAge`, `query`}, qual.BindingKeys())
}

func TestSQLTemplateRejectsOrdinals(t *testing.T) {
	_, err := SQLTemplate(`age > $1`)
	if !errors.As(err, new(ErrUnexpectedParameter)) {
		t.Fatalf(`expected ErrUnexpectedParameter, got %#v`, err)
	}
}

func TestRawSQL(t *testing.T) {
	eq(
		t,
		RawQual{[]SQLPart{
			{Text: `authorId IN `},
			{Name: `authIds`},
			{Text: ` AND note = '$not a var'`},
		}},
		RawSQL(`authorId IN $authIds AND note = '$not a var'`),
	)

	eq(t, RawQual{[]SQLPart{{Text: `1 = 1`}}}, RawSQL(`1 = 1`))
	eq(t, RawQual{}, RawSQL(``))
}

func TestRawQualRender(t *testing.T) {
	qual := RawSQL(`authorId IN $authIds`)
	testRender(t, `SQL[authorId IN $authIds]`, qual)
}

func TestRawQualBindArray(t *testing.T) {
	qual := RawSQL(`authorId IN $authIds`)

	out, err := qual.WithBindings(Dict{`authIds`: []int{1, 2, 3}}, true)
	if err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}

	eq(
		t,
		Qualifier(RawQual{[]SQLPart{
			{Text: `authorId IN `},
			{
				Name:  `authIds`,
				Val:   ListVal(IntVal(1), IntVal(2), IntVal(3)),
				Bound: true,
			},
		}}),
		out,
	)
	eq(t, `SQL[authorId IN (1, 2, 3)]`, out.String())
	eq(t, false, out.HasUnresolvedBindings())
}

func TestRawQualBindPartial(t *testing.T) {
	qual := RawSQL(`a = $one AND b = $two`)

	out, err := qual.WithBindings(Dict{`one`: 1}, false)
	if err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}
	eq(t, `SQL[a = 1 AND b = $two]`, out.String())
	eq(t, []string{`two`}, out.BindingKeys())

	_, err = qual.WithBindings(Dict{`one`: 1}, true)
	var missing ErrMissingBinding
	if !errors.As(err, &missing) {
		t.Fatalf(`expected ErrMissingBinding, got %#v`, err)
	}
	eq(t, `two`, missing.Name)
}

func TestRawQualBindUnsupported(t *testing.T) {
	qual := RawSQL(`a = $fun`)

	_, err := qual.WithBindings(Dict{`fun`: func() {}}, false)
	if !errors.As(err, new(ErrUnsupportedValue)) {
		t.Fatalf(`expected ErrUnsupportedValue, got %#v`, err)
	}
}

func TestSQLLiteralEscaping(t *testing.T) {
	qual := RawSQL(`name = $name`)

	out, err := qual.WithBindings(Dict{`name`: `Mc'Duck`}, true)
	if err != nil {
		t.Fatalf(`unexpected error: %v`, err)
	}
	eq(t, `SQL[name = 'Mc''Duck']`, out.String())
}
