package callrec

import "strings"

const (
	// ResultMarker separates a call from its result in a rendered signature.
	ResultMarker = "-> "
	// UnsetMarker stands in for the result of a call that has not returned.
	UnsetMarker = "!"
)

// Value is an argument snapshot: the keyword name (empty for positional
// arguments) and the text the value rendered to when the call was entered.
type Value struct {
	Name    string
	Text    string
	Ignored bool // keyword excluded from rendering; Text is never filled in
}

// Keyword reports whether the value was passed by name.
func (v Value) Keyword() bool { return v.Name != "" }

// Record is a single invocation of a tracked function.
//
// Children and Parent index into the tracker's ledger; a Record does not own
// the records it points at.
type Record struct {
	Seq   int    // 1-based position in the ledger
	Func  string // function identity
	Depth int    // 0 for the root call

	Args   []Value // positional, in call order
	Kwargs []Value // keywords, in call order

	Parent   *Record
	Children []*Record

	Err error // set when the call failed

	result    string
	hasResult bool
}

// New snapshots args into a record for a call to fn. Keywords named in
// ignored are kept by name only.
func New(seq int, fn string, args []Arg, ignored map[string]struct{}) *Record {
	r := &Record{Seq: seq, Func: fn}
	for _, a := range args {
		if a.Name == "" {
			r.Args = append(r.Args, Value{Text: Repr(a.Value)})
			continue
		}
		if _, skip := ignored[a.Name]; skip {
			r.Kwargs = append(r.Kwargs, Value{Name: a.Name, Ignored: true})
			continue
		}
		r.Kwargs = append(r.Kwargs, Value{Name: a.Name, Text: Repr(a.Value)})
	}
	return r
}

// AddChild links child under r and sets its depth.
func (r *Record) AddChild(child *Record) {
	child.Parent = r
	child.Depth = r.Depth + 1
	r.Children = append(r.Children, child)
}

// Return records a normal completion with result v.
func (r *Record) Return(v any) {
	r.result = Display(v)
	r.hasResult = true
}

// Fail records err as the call's failure.
func (r *Record) Fail(err error) {
	r.Err = err
}

// Failed reports whether the call ended in a failure.
func (r *Record) Failed() bool { return r.Err != nil }

// Returned reports whether the call completed normally.
func (r *Record) Returned() bool { return r.hasResult }

// Result returns the rendered return value, or UnsetMarker.
func (r *Record) Result() string {
	if !r.hasResult {
		return UnsetMarker
	}
	return r.result
}

// Invocation renders the call without its result: name(a,b,k=v).
func (r *Record) Invocation() string {
	var sb strings.Builder
	sb.WriteString(r.Func)
	sb.WriteByte('(')
	first := true
	for _, v := range r.Args {
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(v.Text)
		first = false
	}
	for _, v := range r.Kwargs {
		if v.Ignored {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		sb.WriteString(v.Name)
		sb.WriteByte('=')
		sb.WriteString(v.Text)
		first = false
	}
	sb.WriteByte(')')
	return sb.String()
}

// Signature renders the call and its result: name(a,b,k=v)-> result.
func (r *Record) Signature() string {
	return r.Invocation() + ResultMarker + r.Result()
}

// String implements fmt.Stringer.
func (r *Record) String() string { return r.Signature() }
