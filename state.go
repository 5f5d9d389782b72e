package deltastream

import "strings"

// State describes where a [Parser]'s cursor sits within a JSON document
// prefix. It is created at parser construction and mutated only by
// [State.Advance]. Use [State.Clone] to copy one: a plain struct copy
// shares ContainerStack's backing array with the original.
//
// At most one of IsInsideString and ParsingLiteral is ever true.
// InsideKeyString implies IsInsideString. RecentlyFinishedKey and
// JustSawColon are mutually exclusive and only meaningful while the
// innermost open container is an object.
type State struct {
	// Aggregated is the full accumulated input seen so far, across every
	// chunk passed to ParseChunk.
	Aggregated string

	// LastChar is the most recently consumed character; whitespace outside
	// strings leaves it unchanged. Empty before the first such character.
	LastChar string

	// ContainerStack holds '{' and '[' for each currently open container,
	// outermost first. Its length is the nesting depth.
	ContainerStack []byte

	IsInsideString      bool
	InsideKeyString     bool
	ExpectingKey        bool
	ParsingLiteral      bool
	JustSawColon        bool
	RecentlyFinishedKey bool

	// escapePending is true for exactly one character: the one immediately
	// following an unescaped backslash inside a string. It resolves the
	// escape-pair parity that a literal reading of "last_char == '\\'"
	// cannot express (see DESIGN.md): after consuming an escaped backslash
	// (the pair "\\\\"), last_char is itself '\\' again even though no
	// escape is pending, so a dedicated toggle is required to tell a
	// completed escape pair apart from a truly dangling trailing backslash.
	escapePending bool
}

// Depth returns the current container nesting depth.
func (s *State) Depth() int {
	return len(s.ContainerStack)
}

// Innermost returns the token at the top of the container stack and
// whether the stack is non-empty.
func (s *State) Innermost() (byte, bool) {
	if len(s.ContainerStack) == 0 {
		return 0, false
	}

	return s.ContainerStack[len(s.ContainerStack)-1], true
}

// Clone returns a deep copy of s; ContainerStack is copied so mutating the
// clone never affects the original.
func (s *State) Clone() *State {
	clone := *s
	clone.ContainerStack = append([]byte(nil), s.ContainerStack...)

	return &clone
}

// String renders s for debugging: its container depth plus the names of
// the flags currently set.
func (s *State) String() string {
	var b strings.Builder

	b.WriteString("State{depth=")

	writeInt(&b, s.Depth())

	if s.IsInsideString {
		if s.InsideKeyString {
			b.WriteString(" in-key-string")
		} else {
			b.WriteString(" in-value-string")
		}
	}

	if s.ParsingLiteral {
		b.WriteString(" in-literal")
	}

	if s.ExpectingKey {
		b.WriteString(" expecting-key")
	}

	if s.JustSawColon {
		b.WriteString(" just-saw-colon")
	}

	if s.RecentlyFinishedKey {
		b.WriteString(" recently-finished-key")
	}

	b.WriteByte('}')

	return b.String()
}

func writeInt(b *strings.Builder, n int) {
	if n == 0 {
		b.WriteByte('0')

		return
	}

	var digits [20]byte

	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}

	b.Write(digits[i:])
}
