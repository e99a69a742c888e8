package luaruntime

// Convention identifies the calling convention a registered native
// function was declared with. It is recorded on the function's descriptor
// and used to wrap the function when the module table is built.
type Convention int

const (
	// NoArgs declares a function that rejects any arguments at call time.
	NoArgs Convention = iota
	// Args declares a function taking positional arguments.
	Args
	// Keywords declares a function taking positional arguments plus an
	// optional trailing table of named options.
	Keywords
)

// String returns the convention's name, or "unknown" for values outside
// the recognized set.
func (c Convention) String() string {
	switch c {
	case NoArgs:
		return "noargs"
	case Args:
		return "args"
	case Keywords:
		return "keywords"
	}
	return "unknown"
}

// Valid reports whether c is one of the three recognized conventions.
func (c Convention) Valid() bool {
	return c == NoArgs || c == Args || c == Keywords
}
