package sqlq

import (
	r "reflect"

	"github.com/mitranim/refut"
)

/*
Convenience type for candidate objects and binding sources. Any
`map[string]any` works; this alias just saves the type ceremony at call
sites:

	sqlq.Evaluate(qual, sqlq.Dict{`name`: `Duck`}, nil)
*/
type Dict map[string]any

/*
Key-value lookup on an arbitrary object. Supports maps with string-ish
keys and structs, dereferencing pointers along the way. On structs, the
key is matched against the "db" tag, then the field name, then a zero-arity
single-return method (allowing computed attributes). The second return
reports whether the key was found at all; a found key may still hold nil.
*/
func ValueForKey(obj any, key string) (any, bool) {
	switch obj := obj.(type) {
	case nil:
		return nil, false
	case Dict:
		val, ok := obj[key]
		return val, ok
	case map[string]any:
		val, ok := obj[key]
		return val, ok
	}

	orig := r.ValueOf(obj)
	rval := orig
	for rval.Kind() == r.Ptr || rval.Kind() == r.Interface {
		if rval.IsNil() {
			return nil, false
		}
		rval = rval.Elem()
	}

	switch rval.Kind() {
	case r.Map:
		return mapValueForKey(rval, key)
	case r.Struct:
		val, ok := structValueForKey(rval, key)
		if ok {
			return val, true
		}
		return methodValueForKey(orig, key)
	default:
		return nil, false
	}
}

/*
Key-path variant of `ValueForKey`: resolves each dot-separated component
against the value produced by the previous one. A miss at any step is a
miss for the whole path.
*/
func ValueForKeyPath(obj any, path string) (any, bool) {
	var found bool
	for _, key := range splitKeyPath(path) {
		obj, found = ValueForKey(obj, key)
		if !found {
			return nil, false
		}
	}
	return obj, true
}

func mapValueForKey(rval r.Value, key string) (any, bool) {
	if rval.IsNil() || rval.Type().Key().Kind() != r.String {
		return nil, false
	}

	out := rval.MapIndex(r.ValueOf(key).Convert(rval.Type().Key()))
	if !out.IsValid() {
		return nil, false
	}
	return out.Interface(), true
}

func structValueForKey(rval r.Value, key string) (any, bool) {
	var out any
	var found bool

	_ = refut.TraverseStructRval(rval, func(fval r.Value, sfield r.StructField, _ []int) error {
		if found {
			return nil
		}
		if sfieldKeyName(sfield) == key || sfield.Name == key || sfield.Name == capitalized(key) {
			out = fval.Interface()
			found = true
		}
		return nil
	})

	return out, found
}

/*
Fallback for computed attributes: a zero-arity single-return method named
after the capitalized key. Tried on both the value and its pointer method
set.
*/
func methodValueForKey(rval r.Value, key string) (any, bool) {
	name := capitalized(key)

	meth := rval.MethodByName(name)
	if !meth.IsValid() && rval.Kind() != r.Ptr && rval.CanAddr() {
		meth = rval.Addr().MethodByName(name)
	}
	if !meth.IsValid() || meth.Type().NumIn() != 0 || meth.Type().NumOut() != 1 {
		return nil, false
	}
	return meth.Call(nil)[0].Interface(), true
}

func sfieldKeyName(sfield r.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}

func capitalized(val string) string {
	if len(val) == 0 {
		return val
	}
	char := val[0]
	if char >= 'a' && char <= 'z' {
		return string(char-'a'+'A') + val[1:]
	}
	return val
}
