package sqlq

import (
	"strconv"
	"time"

	"github.com/mitranim/sqlp"
)

/*
Escape-hatch qualifier: a verbatim SQL condition with optional `$name`
binding placeholders. Its meaning is known only to a SQL backend, so it
doesn't implement `Evaluable`; in-memory evaluation of a tree containing
one reports a soft failure for that branch.

Renders as `SQL[...]` in the qualifier format. Binding resolution splices
resolved values into the rendering as SQL literals, while unresolved
placeholders render back as `$name`, keeping partially-bound qualifiers
round-trippable.
*/
type RawQual struct {
	Parts []SQLPart
}

/*
One segment of a `RawQual`: either verbatim text (`Name` is empty) or a
binding placeholder, which is unresolved until `Bound` is set.
*/
type SQLPart struct {
	Text  string
	Name  string
	Val   Val
	Bound bool
}

/*
Builds a `RawQual` from a SQL string in the ":named parameter" syntax:

	qual, err := sqlq.SQLTemplate(`availableStock > :minStock`)

Ordinal parameters such as `$1` are rejected with `ErrUnexpectedParameter`:
qualifier bindings are referenced by name, never by position. Malformed SQL
is an `ErrInvalidInput`.
*/
func SQLTemplate(src string) (_ RawQual, err error) {
	defer rec(&err)
	defer func() {
		if err != nil {
			err = ErrInvalidInput{Err{`parsing SQL template`, err}}
		}
	}()

	var parts []SQLPart
	var buf []byte
	flush := func() {
		if len(buf) > 0 {
			parts = append(parts, SQLPart{Text: string(buf)})
			buf = buf[:0]
		}
	}

	tokenizer := sqlp.Tokenizer{Source: src}
	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeNamedParam:
			flush()
			parts = append(parts, SQLPart{Name: string(node)})

		case sqlp.NodeOrdinalParam:
			panic(ErrUnexpectedParameter{Err{
				`parsing SQL template`,
				errf(`expected only named params, got ordinal param %q`, node),
			}})

		default:
			node.Append(&buf)
		}
	}

	flush()
	return RawQual{parts}, nil
}

/*
Builds a `RawQual` from verbatim SQL text in the qualifier-format syntax,
where binding placeholders are `$name`. Placeholders are recognized outside
of single- and double-quoted spans; everything else is carried unchanged.
This is what parsing a `SQL[...]` construct produces.
*/
func RawSQL(src string) RawQual {
	var parts []SQLPart
	start := 0
	ind := 0

	for ind < len(src) {
		char := src[ind]

		if char == quoteSingle || char == quoteDouble {
			ind = skipQuotedSpan(src, ind)
			continue
		}

		if char == bindingPrefix && ind+1 < len(src) && charsetIdentStart.has(src[ind+1]) {
			end := ind + 1
			for end < len(src) && charsetIdent.has(src[end]) {
				end++
			}
			if start < ind {
				parts = append(parts, SQLPart{Text: src[start:ind]})
			}
			parts = append(parts, SQLPart{Name: src[ind+1 : end]})
			ind = end
			start = end
			continue
		}

		ind++
	}

	if start < len(src) {
		parts = append(parts, SQLPart{Text: src[start:]})
	}
	return RawQual{parts}
}

// Implement part of the `Qualifier` interface. Raw SQL is opaque: the keys
// it mentions are unknowable without parsing the backend's dialect.
func (self RawQual) ReferencedKeys() []string { return nil }

// Implement part of the `Qualifier` interface.
func (self RawQual) BindingKeys() []string {
	var out []string
	for _, part := range self.Parts {
		if part.Name != `` && !part.Bound {
			out = append(out, part.Name)
		}
	}
	return out
}

// Implement part of the `Qualifier` interface.
func (self RawQual) HasUnresolvedBindings() bool {
	for _, part := range self.Parts {
		if part.Name != `` && !part.Bound {
			return true
		}
	}
	return false
}

/*
Implement part of the `Qualifier` interface. Resolved values must be
renderable as SQL literals; values outside the closed constant kinds are an
`ErrUnsupportedValue` even when permissive about missing bindings.
*/
func (self RawQual) WithBindings(bindings any, requiresAll bool) (Qualifier, error) {
	var changed bool
	out := make([]SQLPart, len(self.Parts))

	for ind, part := range self.Parts {
		if part.Name == `` || part.Bound {
			out[ind] = part
			continue
		}

		val, found := ValueForKeyPath(bindings, part.Name)
		if !found {
			if requiresAll {
				return nil, errMissingBinding(part.Name)
			}
			out[ind] = part
			continue
		}

		con, err := ValOf(val)
		if err != nil {
			return nil, errUnsupportedValue(`resolving raw qualifier bindings`, val)
		}
		out[ind] = SQLPart{Name: part.Name, Val: con, Bound: true}
		changed = true
	}

	if !changed {
		return self, nil
	}
	return RawQual{out}, nil
}

// Implement the `Appender` interface.
func (self RawQual) Append(text []byte) []byte {
	text = append(text, `SQL[`...)
	for _, part := range self.Parts {
		switch {
		case part.Name == ``:
			text = append(text, part.Text...)
		case part.Bound:
			text = appendSQLLiteral(text, part.Val)
		default:
			text = Variable(part.Name).Append(text)
		}
	}
	return append(text, `]`...)
}

// Implement the `fmt.Stringer` interface.
func (self RawQual) String() string { return appenderToStr(self) }

/*
SQL literal rendering, distinct from the qualifier-format rendering in
`Val.Append`: strings escape quotes by doubling per the SQL standard, not
by backslashes.
*/
func appendSQLLiteral(text []byte, val Val) []byte {
	switch val.Kind {
	case KindBool:
		return strconv.AppendBool(text, val.Bool)

	case KindInt:
		return strconv.AppendInt(text, val.Int, 10)

	case KindFloat:
		return strconv.AppendFloat(text, val.Float, 'f', -1, 64)

	case KindStr:
		text = append(text, quoteSingle)
		for ind := 0; ind < len(val.Str); ind++ {
			char := val.Str[ind]
			if char == quoteSingle {
				text = append(text, quoteSingle)
			}
			text = append(text, char)
		}
		return append(text, quoteSingle)

	case KindTime:
		text = append(text, quoteSingle)
		text = val.Time.AppendFormat(text, time.RFC3339)
		return append(text, quoteSingle)

	case KindList:
		text = append(text, `(`...)
		for ind, elem := range val.List {
			if ind > 0 {
				text = append(text, `, `...)
			}
			text = appendSQLLiteral(text, elem)
		}
		return append(text, `)`...)

	default:
		return append(text, `NULL`...)
	}
}

/*
Skips a quoted span starting at `start`, returning the index just past the
closing quote. Backslash escapes are honored. An unterminated span extends
to the end of input; raw SQL is carried verbatim, not validated.
*/
func skipQuotedSpan(src string, start int) int {
	quote := src[start]
	ind := start + 1
	for ind < len(src) {
		char := src[ind]
		if char == charEscape && ind+1 < len(src) {
			ind += 2
			continue
		}
		ind++
		if char == quote {
			break
		}
	}
	return ind
}
