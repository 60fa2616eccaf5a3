package sqlq

import (
	"strings"
	"unsafe"
)

const (
	bindingPrefix = '$'
	formatPrefix  = '%'
	quoteSingle   = '\''
	quoteDouble   = '"'
	charEscape    = '\\'
	keyPathSep    = '.'
)

var (
	charsetDigitDec   = new(charset).addStr(`0123456789`)
	charsetIdentStart = new(charset).addStr(`ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_`)
	charsetIdent      = new(charset).addSet(charsetIdentStart).addSet(charsetDigitDec)
	charsetSpace      = new(charset).addStr(" \t\v")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)
	charsetNum        = new(charset).addSet(charsetDigitDec).addStr(`+-.eExX_abcdfABCDF`)
	charsetNumStart   = new(charset).addSet(charsetDigitDec).addStr(`+-.`)
	charsetOpSymbol   = new(charset).addStr(`=!<>`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed
from the standard library. Reasonably safe as long as the underlying byte
array is not mutated afterwards.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func appenderToStr(val Appender) string {
	return bytesToMutableString(val.Append(nil))
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func try1[A any](val A, err error) A {
	try(err)
	return val
}

// Must be deferred.
func rec(ptr *error) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = err
		return
	}

	panic(val)
}

func splitKeyPath(val string) []string {
	return strings.Split(val, string(rune(keyPathSep)))
}
