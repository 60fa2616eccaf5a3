package sqlq

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

/*
Parses the textual qualifier format:

	sqlq.Parse(`lastname = %@ AND birthdate < $cutoff`, `Duck`)

Parse failures are soft: the result is nil and diagnostics go to the
logger, never to a returned error. By the time a qualifier exists its
shape is trusted; only binding resolution reports typed errors. Use
`ParseWith` or a `Parser` value to capture the diagnostics.
*/
func Parse(src string, args ...any) Qualifier {
	return (&Parser{Source: src, Args: args}).Parse()
}

// Variant of `Parse` with an explicit diagnostics sink.
func ParseWith(log hclog.Logger, src string, args ...any) Qualifier {
	return (&Parser{Source: src, Args: args, Log: log}).Parse()
}

/*
Single-use parse session: one format string, one ordered list of
positional arguments consumed left to right by `%` specifiers, one
cursor. Make a fresh `Parser` per parse; distinct instances are fully
independent and safe to use concurrently.

Grammar sketch:

	compound := unit ((`AND` | `OR`) unit)*
	unit     := `(` compound `)`
	          | `NOT` unit
	          | `SQL[` verbatim `]`
	          | `*true*` | `*false*`
	          | key [op value]

A word of warning about compound grouping: there is no AND-over-OR
precedence. Units joined by one operator accumulate into a single run;
when the operator changes, the run folds into one qualifier which seeds
the next run. `a AND b OR c` groups as `(a AND b) OR c`, and
`a OR b AND c` groups as `(a OR b) AND c`. Parenthesize to override.
*/
type Parser struct {
	Source string
	Args   []any
	Log    hclog.Logger

	cursor int
	argInd int
}

// Runs the parse. Nil result = failure, see the logger.
func (self *Parser) Parse() Qualifier {
	out := self.parseCompound()
	if out == nil {
		return nil
	}

	self.skipWhitespace()
	if self.more() {
		self.err(`unexpected trailing text %q`, self.preview())
		return nil
	}
	return out
}

func (self *Parser) parseCompound() Qualifier {
	head := self.parseUnit()
	if head == nil {
		return nil
	}

	run := []Qualifier{head}
	var runOp string

	for {
		op := self.maybeCompoundOp()
		if op == `` {
			break
		}

		next := self.parseUnit()
		if next == nil {
			self.err(`missing qualifier after %v`, op)
			return nil
		}

		if runOp == `` || runOp == op {
			runOp = op
			run = append(run, next)
			continue
		}

		// Operator changed: fold the accumulated run and seed a new one
		// with the folded qualifier.
		run = []Qualifier{foldRun(run, runOp), next}
		runOp = op
	}

	return foldRun(run, runOp)
}

func foldRun(run []Qualifier, op string) Qualifier {
	if len(run) == 1 {
		return run[0]
	}
	if op == `OR` {
		return OrQual(run)
	}
	return AndQual(run)
}

func (self *Parser) parseUnit() Qualifier {
	self.skipWhitespace()
	if !self.more() {
		self.err(`unexpected end of input, expected a qualifier`)
		return nil
	}

	if self.maybeWordCI(`NOT`) {
		inner := self.parseUnit()
		if inner == nil {
			return nil
		}
		return Not(inner)
	}

	if self.maybeStr(`SQL[`) {
		return self.parseRawSQL()
	}

	if self.maybeStr(`*true*`) {
		return BoolQual(true)
	}
	if self.maybeStr(`*false*`) {
		return BoolQual(false)
	}

	if self.headIs('(') {
		self.cursor++
		inner := self.parseCompound()
		if inner == nil {
			return nil
		}

		self.skipWhitespace()
		if self.headIs(')') {
			self.cursor++
		} else {
			// Tolerated: keep what was parsed.
			self.err(`missing closing parenthesis`)
		}
		return inner
	}

	return self.parseKeyBased()
}

/*
Verbatim body until an unescaped `]`. Escapes are skipped while scanning
but the body text is carried unchanged. `$name` placeholders inside are
recognized by `RawSQL`.
*/
func (self *Parser) parseRawSQL() Qualifier {
	start := self.cursor

	for self.more() {
		char := self.Source[self.cursor]
		if char == charEscape && self.cursor+1 < len(self.Source) {
			self.cursor += 2
			continue
		}
		if char == ']' {
			body := self.Source[start:self.cursor]
			self.cursor++
			return RawSQL(body)
		}
		self.cursor++
	}

	self.err(`unexpected end of input inside SQL[...]`)
	return nil
}

func (self *Parser) parseKeyBased() Qualifier {
	key, ok := self.parseKeyToken()
	if !ok {
		return nil
	}

	self.skipWhitespace()

	// A bare key is a truthy test, whether followed by EOF, a closing
	// paren, or a compound operator.
	if !self.more() || self.headIs(')') || self.peekWordCI(`AND`) || self.peekWordCI(`OR`) {
		return KeyValQual{KeyFrom(key), OpEq, BoolVal(true)}
	}

	op, ok := self.parseOperation()
	if !ok {
		return nil
	}

	/*
		`IS NULL` / `IS NOT NULL` get special treatment. When the lookahead
		after `IS` matches neither, the cursor backtracks to just past `IS`
		and the token is treated as a generic operator.
	*/
	if strings.EqualFold(string(op), `IS`) {
		mark := self.cursor
		self.skipWhitespace()

		if self.maybeWordCI(`NOT`) {
			self.skipWhitespace()
			if self.maybeWordCI(`NULL`) {
				return KeyValQual{KeyFrom(key), OpNotEq, Val{}}
			}
			self.cursor = mark
			self.skipWhitespace()
		}

		if self.maybeWordCI(`NULL`) {
			return KeyValQual{KeyFrom(key), OpEq, Val{}}
		}
		self.cursor = mark
	}

	return self.parseRhs(key, op)
}

func (self *Parser) parseOperation() (Operation, bool) {
	self.skipWhitespace()
	if !self.more() {
		self.err(`unexpected end of input, expected an operator`)
		return ``, false
	}

	char := self.head()

	if char == formatPrefix {
		str, ok := self.formatArgString()
		if !ok {
			return ``, false
		}
		return OperationFrom(str), true
	}

	if charsetOpSymbol.has(char) {
		start := self.cursor
		for self.more() && charsetOpSymbol.has(self.head()) {
			self.cursor++
		}
		return OperationFrom(self.Source[start:self.cursor]), true
	}

	if charsetIdentStart.has(char) {
		start := self.cursor
		for self.more() && charsetIdent.has(self.head()) {
			self.cursor++
		}
		return OperationFrom(self.Source[start:self.cursor]), true
	}

	self.err(`unexpected %q, expected an operator`, self.preview())
	return ``, false
}

func (self *Parser) parseRhs(key string, op Operation) Qualifier {
	self.skipWhitespace()
	if !self.more() {
		self.err(`unexpected end of input, expected a value`)
		return nil
	}

	char := self.head()

	switch {
	case char == bindingPrefix:
		self.cursor++
		name, ok := self.parseIdentPath()
		if !ok {
			return nil
		}
		return KeyValQual{KeyFrom(key), op, Variable(name)}

	case char == formatPrefix:
		fchar, ok := self.formatChar()
		if !ok {
			return nil
		}
		arg, ok := self.nextArg()
		if !ok {
			return nil
		}
		if fchar == 'K' {
			return KeyCompQual{KeyFrom(key), op, KeyFrom(fmt.Sprint(arg))}
		}
		val, ok := self.convertArg(fchar, arg)
		if !ok {
			return nil
		}
		return KeyValQual{KeyFrom(key), op, val}

	case char == quoteSingle || char == quoteDouble:
		str, ok := self.parseQuoted()
		if !ok {
			return nil
		}
		return KeyValQual{KeyFrom(key), op, StrVal(str)}

	case char == '(':
		val, ok := self.parseParenRhs()
		if !ok {
			return nil
		}
		return KeyValQual{KeyFrom(key), op, val}

	case charsetNumStart.has(char):
		val, ok := self.parseNumber()
		if !ok {
			return nil
		}
		return KeyValQual{KeyFrom(key), op, val}

	case charsetIdentStart.has(char):
		word, ok := self.parseIdentPath()
		if !ok {
			return nil
		}
		val, isConst := constWordVal(word)
		if isConst {
			return KeyValQual{KeyFrom(key), op, val}
		}
		return KeyCompQual{KeyFrom(key), op, KeyFrom(word)}

	default:
		self.err(`unexpected %q, expected a value`, self.preview())
		return nil
	}
}

/*
Parenthesized right-hand side: either a cast such as `(Int)'5'`, whose
class name is discarded with a warning, or a constant list such as
`(1, 2, 3)` as produced by rendering an `IN` qualifier.
*/
func (self *Parser) parseParenRhs() (Val, bool) {
	mark := self.cursor
	self.cursor++
	self.skipWhitespace()

	if self.more() && charsetIdentStart.has(self.head()) {
		name, _ := self.parseIdent()
		self.skipWhitespace()

		if self.headIs(')') {
			self.cursor++
			self.skipWhitespace()
			if self.more() && self.startsConstant() {
				self.warn(`ignoring cast to %q`, name)
				return self.parseConstant()
			}
		}
		// Not a cast. Reparse the parens as a list.
		self.cursor = mark + 1
	}

	var vals []Val
	for {
		self.skipWhitespace()
		if self.headIs(')') {
			self.cursor++
			break
		}
		if !self.more() {
			self.err(`unexpected end of input inside value list`)
			return Val{}, false
		}

		val, ok := self.parseConstant()
		if !ok {
			return Val{}, false
		}
		vals = append(vals, val)

		self.skipWhitespace()
		if self.maybeByte(',') {
			continue
		}
		if self.headIs(')') {
			self.cursor++
			break
		}
		self.err(`expected "," or ")" in value list, found %q`, self.preview())
		return Val{}, false
	}
	return ListVal(vals...), true
}

func (self *Parser) parseConstant() (Val, bool) {
	self.skipWhitespace()
	if !self.more() {
		self.err(`unexpected end of input, expected a constant`)
		return Val{}, false
	}

	char := self.head()

	switch {
	case char == quoteSingle || char == quoteDouble:
		str, ok := self.parseQuoted()
		if !ok {
			return Val{}, false
		}
		return StrVal(str), true

	case charsetNumStart.has(char):
		return self.parseNumber()

	case charsetIdentStart.has(char):
		word, ok := self.parseIdent()
		if !ok {
			return Val{}, false
		}
		val, isConst := constWordVal(word)
		if !isConst {
			self.err(`unexpected identifier %q, expected a constant`, word)
			return Val{}, false
		}
		return val, true

	default:
		self.err(`unexpected %q, expected a constant`, self.preview())
		return Val{}, false
	}
}

func (self *Parser) startsConstant() bool {
	char := self.head()
	return char == quoteSingle || char == quoteDouble ||
		charsetNumStart.has(char) || charsetIdentStart.has(char)
}

/*
Bare-word constants accepted in value position: booleans (`true`,
`false`, `YES`, `NO`) and nulls (`NULL`, `null`, `nil`), matched
case-insensitively. Any other word is a key.
*/
func constWordVal(word string) (Val, bool) {
	switch {
	case strings.EqualFold(word, `true`) || strings.EqualFold(word, `YES`):
		return BoolVal(true), true
	case strings.EqualFold(word, `false`) || strings.EqualFold(word, `NO`):
		return BoolVal(false), true
	case strings.EqualFold(word, `NULL`) || strings.EqualFold(word, `nil`):
		return Val{}, true
	default:
		return Val{}, false
	}
}

/*
Numbers are any unbroken run of numeric characters. A run containing `.`
parses as a float, otherwise as an integer (with `0x`/`0b` and `_`
separators allowed). A malformed run is a parse error.
*/
func (self *Parser) parseNumber() (Val, bool) {
	start := self.cursor
	for self.more() && charsetNum.has(self.head()) {
		self.cursor++
	}
	str := self.Source[start:self.cursor]

	if strings.ContainsRune(str, '.') {
		out, err := strconv.ParseFloat(str, 64)
		if err != nil {
			self.err(`malformed number %q`, str)
			return Val{}, false
		}
		return FloatVal(out), true
	}

	out, err := strconv.ParseInt(str, 0, 64)
	if err != nil {
		self.err(`malformed number %q`, str)
		return Val{}, false
	}
	return IntVal(out), true
}

/*
Contents of a quoted string. Both `'` and `"` delimit; a backslash
escapes the following character during scanning, but the extracted
contents are NOT unescaped: `'Mc\'Duck'` yields the 8 characters
`Mc\'Duck`. A deliberate quirk, kept for round-trip fidelity with
renderings produced by this package.
*/
func (self *Parser) parseQuoted() (string, bool) {
	quote := self.head()
	opening := self.cursor
	self.cursor++
	start := self.cursor

	for self.more() {
		char := self.head()
		if char == charEscape && self.cursor+1 < len(self.Source) {
			self.cursor += 2
			continue
		}
		if char == quote {
			out := self.Source[start:self.cursor]
			self.cursor++
			return out, true
		}
		self.cursor++
	}

	self.err(`unterminated string starting at position %v`, opening)
	return ``, false
}

// Key position: a dotted identifier path, or a `%` specifier whose
// argument is stringified into a key.
func (self *Parser) parseKeyToken() (string, bool) {
	if self.headIs(formatPrefix) {
		return self.formatArgString()
	}
	return self.parseIdentPath()
}

func (self *Parser) parseIdent() (string, bool) {
	if !self.more() || !charsetIdentStart.has(self.head()) {
		self.err(`unexpected %q, expected an identifier`, self.preview())
		return ``, false
	}

	start := self.cursor
	self.cursor++
	for self.more() && charsetIdent.has(self.head()) {
		self.cursor++
	}
	return self.Source[start:self.cursor], true
}

func (self *Parser) parseIdentPath() (string, bool) {
	start := self.cursor
	_, ok := self.parseIdent()
	if !ok {
		return ``, false
	}

	for self.headIs(keyPathSep) &&
		self.cursor+1 < len(self.Source) &&
		charsetIdentStart.has(self.Source[self.cursor+1]) {
		self.cursor++
		_, _ = self.parseIdent()
	}
	return self.Source[start:self.cursor], true
}

// Consumes a `%` specifier plus its argument, stringified. Used in key
// and operator positions.
func (self *Parser) formatArgString() (string, bool) {
	char, ok := self.formatChar()
	if !ok {
		return ``, false
	}

	switch char {
	case '@', 's', 'K', 'i', 'd', 'f':
	default:
		self.err(`unsupported format specifier %%%c`, char)
		return ``, false
	}

	arg, ok := self.nextArg()
	if !ok {
		return ``, false
	}
	return fmt.Sprint(arg), true
}

func (self *Parser) formatChar() (byte, bool) {
	self.cursor++
	if !self.more() {
		self.err(`unexpected end of input after "%%"`)
		return 0, false
	}

	char := self.head()
	self.cursor++
	if char == formatPrefix {
		self.err(`format specifier "%%%%" is not supported`)
		return 0, false
	}
	return char, true
}

func (self *Parser) nextArg() (any, bool) {
	if self.argInd >= len(self.Args) {
		self.err(`more format patterns than arguments`)
		return nil, false
	}
	arg := self.Args[self.argInd]
	self.argInd++
	return arg, true
}

/*
Value-position argument conversion: `%@` takes the argument as-is, `%s`
stringifies, `%i` / `%d` coerce to an integer and `%f` to a float, with a
best-effort parse for string arguments.
*/
func (self *Parser) convertArg(char byte, arg any) (Val, bool) {
	val, err := ValOf(arg)
	if err != nil {
		self.err(`unsupported argument: %v`, err)
		return Val{}, false
	}

	switch char {
	case '@':
		return val, true

	case 's':
		if val.Kind == KindStr {
			return val, true
		}
		return StrVal(fmt.Sprint(arg)), true

	case 'i', 'd':
		switch val.Kind {
		case KindInt:
			return val, true
		case KindFloat:
			return IntVal(int64(val.Float)), true
		case KindStr:
			out, err := strconv.ParseInt(strings.TrimSpace(val.Str), 0, 64)
			if err != nil {
				self.err(`can't convert argument %q to an integer`, val.Str)
				return Val{}, false
			}
			return IntVal(out), true
		default:
			self.err(`can't convert %v argument to an integer`, val.Kind)
			return Val{}, false
		}

	case 'f':
		switch val.Kind {
		case KindFloat:
			return val, true
		case KindInt:
			return FloatVal(float64(val.Int)), true
		case KindStr:
			out, err := strconv.ParseFloat(strings.TrimSpace(val.Str), 64)
			if err != nil {
				self.err(`can't convert argument %q to a float`, val.Str)
				return Val{}, false
			}
			return FloatVal(out), true
		default:
			self.err(`can't convert %v argument to a float`, val.Kind)
			return Val{}, false
		}

	default:
		self.err(`unsupported format specifier %%%c`, char)
		return Val{}, false
	}
}

func (self *Parser) maybeCompoundOp() string {
	self.skipWhitespace()
	if self.maybeWordCI(`AND`) {
		return `AND`
	}
	if self.maybeWordCI(`OR`) {
		return `OR`
	}
	return ``
}

func (self *Parser) more() bool { return self.cursor < len(self.Source) }

func (self *Parser) head() byte { return self.Source[self.cursor] }

func (self *Parser) headIs(char byte) bool {
	return self.more() && self.head() == char
}

func (self *Parser) maybeByte(char byte) bool {
	if self.headIs(char) {
		self.cursor++
		return true
	}
	return false
}

func (self *Parser) maybeStr(val string) bool {
	if strings.HasPrefix(self.Source[self.cursor:], val) {
		self.cursor += len(val)
		return true
	}
	return false
}

// Case-insensitive word match requiring a word boundary after.
func (self *Parser) peekWordCI(word string) bool {
	end := self.cursor + len(word)
	if end > len(self.Source) {
		return false
	}
	if !strings.EqualFold(self.Source[self.cursor:end], word) {
		return false
	}
	return end == len(self.Source) || !charsetIdent.has(self.Source[end])
}

func (self *Parser) maybeWordCI(word string) bool {
	if self.peekWordCI(word) {
		self.cursor += len(word)
		return true
	}
	return false
}

func (self *Parser) skipWhitespace() {
	for self.more() && charsetWhitespace.has(self.head()) {
		self.cursor++
	}
}

// Short upcoming snippet for diagnostics.
func (self *Parser) preview() string {
	const limit = 16
	rest := self.Source[self.cursor:]
	if len(rest) > limit {
		return rest[:limit] + `...`
	}
	return rest
}

func (self *Parser) err(pat string, vals ...any) {
	sink(self.Log).Error(
		`qualifier parse error`,
		`pos`, self.cursor, `msg`, fmt.Sprintf(pat, vals...),
	)
}

func (self *Parser) warn(pat string, vals ...any) {
	sink(self.Log).Warn(
		`qualifier parse warning`,
		`pos`, self.cursor, `msg`, fmt.Sprintf(pat, vals...),
	)
}
