package callrec

import (
	"fmt"
	"strconv"
)

// Arg is one actual parameter of a tracked call.
type Arg struct {
	Name  string // empty for positional arguments
	Value any
}

// Pos makes a positional argument.
func Pos(v any) Arg { return Arg{Value: v} }

// KW makes a keyword argument.
func KW(name string, v any) Arg { return Arg{Name: name, Value: v} }

// Args is the argument list handed to a function wrapped with keyword support.
type Args []Arg

// At returns the i-th positional argument, or nil if there are fewer.
func (a Args) At(i int) any {
	n := 0
	for _, arg := range a {
		if arg.Name != "" {
			continue
		}
		if n == i {
			return arg.Value
		}
		n++
	}
	return nil
}

// Keyword returns the value passed under name.
func (a Args) Keyword(name string) (any, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return nil, false
}

// Int returns the i-th positional argument as an int.
func (a Args) Int(i int) int {
	v, _ := a.At(i).(int)
	return v
}

// Repr renders an argument value. Strings are quoted so that f("1") and
// f(1) stay distinguishable.
func Repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	default:
		return Display(v)
	}
}

// Display renders a return value. Errors and Stringers go through fmt, which
// prints <nil> for a nil pointer receiver and %!v(PANIC=...) when the method
// panics, so rendering never unwinds the caller.
func Display(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
