package sqlq

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

const (
	OpEq                 Operation = `=`
	OpNotEq              Operation = `!=`
	OpLt                 Operation = `<`
	OpLtEq               Operation = `<=`
	OpGt                 Operation = `>`
	OpGtEq               Operation = `>=`
	OpIn                 Operation = `IN`
	OpLike               Operation = `LIKE`
	OpLikeInsensitive    Operation = `ILIKE`
	OpSQLLike            Operation = `SQLLIKE`
	OpSQLLikeInsensitive Operation = `SQLILIKE`
)

/*
Comparison operation in a `KeyValQual`. The value is the canonical operator
token. The set above is what this package parses, renders and evaluates,
but the type is open: an unrecognized token is carried as-is, renders
verbatim, and merely fails soft at evaluation time. This lets qualifiers
round-trip operators meaningful only to a specific SQL backend.
*/
type Operation string

/*
Canonicalizes an operator token: symbol aliases (`==`, `<>`) map to the
canonical symbols, the LIKE family is matched case-insensitively.
Everything else, `IN` included, must match exactly; unknown tokens are
preserved unchanged.
*/
func OperationFrom(token string) Operation {
	switch token {
	case `==`:
		return OpEq
	case `<>`:
		return OpNotEq
	}

	switch Operation(strings.ToUpper(token)) {
	case OpLike:
		return OpLike
	case OpLikeInsensitive:
		return OpLikeInsensitive
	case OpSQLLike:
		return OpSQLLike
	case OpSQLLikeInsensitive:
		return OpSQLLikeInsensitive
	}

	return Operation(token)
}

// True if the operation is one of the canonical constants.
func (self Operation) IsKnown() bool {
	switch self {
	case OpEq, OpNotEq, OpLt, OpLtEq, OpGt, OpGtEq,
		OpIn, OpLike, OpLikeInsensitive, OpSQLLike, OpSQLLikeInsensitive:
		return true
	default:
		return false
	}
}

// Implement the `Appender` interface.
func (self Operation) Append(text []byte) []byte {
	return append(text, self...)
}

// Implement the `fmt.Stringer` interface.
func (self Operation) String() string { return string(self) }

/*
Dynamic comparison over the closed value kinds. Follows SQL-ish semantics
with one deliberate exception: two NULLs are equal. Pairs the operation
can't compare (ordering a bool, `IN` against a non-list, `SQLLIKE` which
only a SQL backend can interpret) are soft failures: reported to the
logger, counted as no match.
*/
func (self Operation) Compare(lhs, rhs Val, log hclog.Logger) bool {
	switch self {
	case OpEq:
		return lhs.Equal(rhs)

	case OpNotEq:
		return !lhs.Equal(rhs)

	case OpLt:
		less, ok := lhs.Less(rhs)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return less

	case OpLtEq:
		if lhs.Equal(rhs) {
			return true
		}
		less, ok := lhs.Less(rhs)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return less

	case OpGt:
		less, ok := rhs.Less(lhs)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return less

	case OpGtEq:
		if lhs.Equal(rhs) {
			return true
		}
		less, ok := rhs.Less(lhs)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return less

	case OpIn:
		found, ok := rhs.Contains(lhs)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return found

	case OpLike, OpLikeInsensitive:
		if lhs.IsNull() && rhs.IsNull() {
			return true
		}
		match, ok := lhs.Like(rhs, self == OpLikeInsensitive)
		if !ok {
			self.logUncomparable(lhs, rhs, log)
			return false
		}
		return match

	default:
		sink(log).Error(`operation is not supported for in-memory comparison`, `op`, string(self))
		return false
	}
}

func (self Operation) logUncomparable(lhs, rhs Val, log hclog.Logger) {
	sink(log).Error(
		`can't compare values`,
		`op`, string(self), `lhsKind`, lhs.Kind.String(), `rhsKind`, rhs.Kind.String(),
	)
}
