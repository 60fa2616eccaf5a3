package sqlq

import (
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
)

type Address struct {
	City   string `db:"city"`
	Street string `db:"street"`
}

type Person struct {
	Firstname string  `db:"firstname"`
	Lastname  string  `db:"lastname"`
	Age       int     `db:"age"`
	Archived  bool    `db:"archived"`
	Nickname  *string `db:"nickname"`
	Address   Address `db:"address"`
}

func (self Person) Fullname() string {
	return self.Firstname + ` ` + self.Lastname
}

var testDonald = Person{
	Firstname: `Donald`,
	Lastname:  `Duck`,
	Age:       86,
	Address:   Address{City: `Duckburg`, Street: `Webfoot Walk`},
}

type encoder interface {
	fmt.Stringer
	Appender
}

func testRender(t testing.TB, exp string, val encoder) {
	t.Helper()
	eq(t, exp, val.String())
	eq(t, exp, string(val.Append(nil)))
}

// Render-parse-compare. The workhorse of the round-trip tests.
func testRoundTrip(t testing.TB, val Qualifier) {
	t.Helper()
	eq(t, val, Parse(val.String()))
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func notEq(t testing.TB, exp, act any) {
	t.Helper()
	if r.DeepEqual(exp, act) {
		t.Fatalf(`
unexpected equality (detailed):
	%#[1]v
unexpected equality (simple):
	%[1]v
`, exp, act)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }
