package sqlq

import (
	r "reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindTime
	KindList
)

// Enum of the closed set of constant kinds storable in qualifiers.
type Kind byte

// Implement `fmt.Stringer` for debug purposes.
func (self Kind) String() string {
	switch self {
	case KindBool:
		return `bool`
	case KindInt:
		return `int`
	case KindFloat:
		return `float`
	case KindStr:
		return `string`
	case KindTime:
		return `time`
	case KindList:
		return `list`
	default:
		return `null`
	}
}

/*
A constant value stored in a qualifier, normalized into a closed set of
kinds at construction time. Comparison dispatches over this closed set
rather than over arbitrary runtime types; anything unrepresentable is
rejected up-front by `ValOf` instead of surfacing later as a failed dynamic
cast. The zero value is SQL NULL.
*/
type Val struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Time  time.Time
	List  []Val
}

// Shortcut constructors for the closed kinds. The zero `Val` is NULL.
func BoolVal(val bool) Val { return Val{Kind: KindBool, Bool: val} }
func IntVal(val int64) Val { return Val{Kind: KindInt, Int: val} }
func FloatVal(val float64) Val { return Val{Kind: KindFloat, Float: val} }
func StrVal(val string) Val { return Val{Kind: KindStr, Str: val} }
func TimeVal(val time.Time) Val { return Val{Kind: KindTime, Time: val} }
func ListVal(vals ...Val) Val { return Val{Kind: KindList, List: vals} }

/*
Normalizes an arbitrary Go value into a `Val`. Supports nil, `Val` itself,
booleans, strings, signed and unsigned integers, floats, `time.Time`,
aliases of `[]byte`, and slices/arrays of any of those. Anything else,
including a `Variable` (which is not a constant), is an
`ErrUnsupportedValue`.
*/
func ValOf(src any) (Val, error) {
	switch src := src.(type) {
	case nil:
		return Val{}, nil
	case Val:
		return src, nil
	case Variable:
		return Val{}, errUnsupportedValue(`normalizing qualifier value`, src)
	case bool:
		return BoolVal(src), nil
	case string:
		return StrVal(src), nil
	case int:
		return IntVal(int64(src)), nil
	case int64:
		return IntVal(src), nil
	case float64:
		return FloatVal(src), nil
	case time.Time:
		return TimeVal(src), nil
	case []byte:
		return StrVal(string(src)), nil
	}

	val := r.ValueOf(src)
	switch val.Kind() {
	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return IntVal(val.Int()), nil

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint:
		return IntVal(int64(val.Uint())), nil

	case r.Float32, r.Float64:
		return FloatVal(val.Float()), nil

	case r.Bool:
		return BoolVal(val.Bool()), nil

	case r.String:
		return StrVal(val.String()), nil

	case r.Slice, r.Array:
		out := make([]Val, 0, val.Len())
		for ind := 0; ind < val.Len(); ind++ {
			elem, err := ValOf(val.Index(ind).Interface())
			if err != nil {
				return Val{}, err
			}
			out = append(out, elem)
		}
		return ListVal(out...), nil

	case r.Ptr:
		if val.IsNil() {
			return Val{}, nil
		}
		return ValOf(val.Elem().Interface())

	default:
		return Val{}, errUnsupportedValue(`normalizing qualifier value`, src)
	}
}

// Variant of `ValOf` that panics on error.
func TryValOf(src any) Val { return try1(ValOf(src)) }

// True for SQL NULL, which is the zero value.
func (self Val) IsNull() bool { return self.Kind == KindNull }

// Inverse of `ValOf`: the native Go value.
func (self Val) Any() any {
	switch self.Kind {
	case KindBool:
		return self.Bool
	case KindInt:
		return self.Int
	case KindFloat:
		return self.Float
	case KindStr:
		return self.Str
	case KindTime:
		return self.Time
	case KindList:
		out := make([]any, 0, len(self.List))
		for _, val := range self.List {
			out = append(out, val.Any())
		}
		return out
	default:
		return nil
	}
}

/*
Equality over the closed kind set. Two NULLs are equal. Ints and floats
compare numerically across kinds. Lists compare pairwise in order. Values
of otherwise-mismatched kinds are unequal, never an error.
*/
func (self Val) Equal(other Val) bool {
	if self.isNum() && other.isNum() {
		if self.Kind == KindInt && other.Kind == KindInt {
			return self.Int == other.Int
		}
		return self.float() == other.float()
	}

	if self.Kind != other.Kind {
		return false
	}

	switch self.Kind {
	case KindNull:
		return true
	case KindBool:
		return self.Bool == other.Bool
	case KindStr:
		return self.Str == other.Str
	case KindTime:
		return self.Time.Equal(other.Time)
	case KindList:
		if len(self.List) != len(other.List) {
			return false
		}
		for ind, val := range self.List {
			if !val.Equal(other.List[ind]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

/*
Strict ordering over orderable kinds: numbers (cross-kind), strings, times.
The second return is false when the pair is not orderable.
*/
func (self Val) Less(other Val) (bool, bool) {
	if self.isNum() && other.isNum() {
		if self.Kind == KindInt && other.Kind == KindInt {
			return self.Int < other.Int, true
		}
		return self.float() < other.float(), true
	}

	if self.Kind != other.Kind {
		return false, false
	}

	switch self.Kind {
	case KindStr:
		return self.Str < other.Str, true
	case KindTime:
		return self.Time.Before(other.Time), true
	default:
		return false, false
	}
}

/*
Membership test for `IN`. The second return is false when the receiver is
not a list.
*/
func (self Val) Contains(val Val) (bool, bool) {
	if self.Kind != KindList {
		return false, false
	}
	for _, elem := range self.List {
		if elem.Equal(val) {
			return true, true
		}
	}
	return false, true
}

/*
Wildcard pattern match for `LIKE`: `*` matches any run, `?` matches any
single character. The second return is false when either side is not a
string.
*/
func (self Val) Like(pat Val, insensitive bool) (bool, bool) {
	if self.Kind != KindStr || pat.Kind != KindStr {
		return false, false
	}

	str, exp := self.Str, pat.Str
	if insensitive {
		str = strings.ToLower(str)
		exp = strings.ToLower(exp)
	}
	return likeMatch(str, exp), true
}

// Implement the `Appender` interface, rendering the qualifier-format
// literal syntax.
func (self Val) Append(text []byte) []byte {
	switch self.Kind {
	case KindBool:
		return strconv.AppendBool(text, self.Bool)

	case KindInt:
		return strconv.AppendInt(text, self.Int, 10)

	case KindFloat:
		return appendFloatLiteral(text, self.Float)

	case KindStr:
		return appendQuoted(text, self.Str)

	case KindTime:
		text = append(text, quoteSingle)
		text = self.Time.AppendFormat(text, time.RFC3339)
		return append(text, quoteSingle)

	case KindList:
		text = append(text, `(`...)
		for ind, val := range self.List {
			if ind > 0 {
				text = append(text, `, `...)
			}
			text = val.Append(text)
		}
		return append(text, `)`...)

	default:
		return append(text, `NULL`...)
	}
}

// Implement the `fmt.Stringer` interface.
func (self Val) String() string { return appenderToStr(self) }

func (self Val) isNum() bool {
	return self.Kind == KindInt || self.Kind == KindFloat
}

func (self Val) float() float64 {
	if self.Kind == KindInt {
		return float64(self.Int)
	}
	return self.Float
}

/*
Floats must render with a decimal point, otherwise reparsing would produce
an integer constant of a different kind.
*/
func appendFloatLiteral(text []byte, val float64) []byte {
	start := len(text)
	text = strconv.AppendFloat(text, val, 'f', -1, 64)
	for _, char := range text[start:] {
		if char == '.' {
			return text
		}
	}
	return append(text, `.0`...)
}

/*
Single-quoted string literal with backslash-escaped quotes and backslashes.
Note the asymmetry: the parser recognizes escapes while scanning but does
not unescape the extracted contents. See the package docs on known format
quirks.
*/
func appendQuoted(text []byte, val string) []byte {
	text = append(text, quoteSingle)
	for ind := 0; ind < len(val); ind++ {
		char := val[ind]
		if char == quoteSingle || char == charEscape {
			text = append(text, charEscape)
		}
		text = append(text, char)
	}
	return append(text, quoteSingle)
}

func likeMatch(str, pat string) bool {
	// Iterative glob match with single-star backtracking.
	var strInd, patInd int
	starPat, starStr := -1, 0

	for strInd < len(str) {
		if patInd < len(pat) {
			switch pat[patInd] {
			case '*':
				starPat, starStr = patInd, strInd
				patInd++
				continue
			case '?':
				_, size := utf8.DecodeRuneInString(str[strInd:])
				strInd += size
				patInd++
				continue
			default:
				if pat[patInd] == str[strInd] {
					patInd++
					strInd++
					continue
				}
			}
		}

		if starPat >= 0 {
			_, size := utf8.DecodeRuneInString(str[starStr:])
			starStr += size
			strInd = starStr
			patInd = starPat + 1
			continue
		}

		return false
	}

	for patInd < len(pat) && pat[patInd] == '*' {
		patInd++
	}
	return patInd == len(pat)
}
