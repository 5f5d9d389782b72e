package deltastream

// Complete synthesizes the smallest valid JSON document that extends s's
// aggregated buffer, applying the five ordered rules of §4.2. The second
// return value is false when the buffer is not yet completable (nothing
// consumed yet, a partial key, a finished key still waiting for its colon,
// a value that has not started, or a bare literal/number) -- callers must
// skip emission for that chunk rather than treat "" as a completion.
//
// Unlike a bare suffix, Complete returns the full document: aggregated plus
// whatever was synthesized to close it, matching the reference completer's
// behavior of handing back a ready-to-decode string.
func (s *State) Complete() (string, bool) {
	if s.LastChar == "" {
		return "", false
	}

	if s.InsideKeyString || s.RecentlyFinishedKey {
		return "", false
	}

	if s.JustSawColon && !s.IsInsideString && !s.ParsingLiteral {
		return "", false
	}

	if s.ParsingLiteral {
		return "", false
	}

	if s.IsInsideString && !s.InsideKeyString {
		base := s.Aggregated
		if s.escapePending {
			base = base[:len(base)-1]
		}

		return base + `"` + closeContainers(s.ContainerStack), true
	}

	base := s.Aggregated
	if s.LastChar == "," {
		base = dropTrailingComma(base)
	}

	return base + closeContainers(s.ContainerStack), true
}

// closeContainers closes every open container in reverse (innermost
// first), the order a well-formed document requires.
func closeContainers(stack []byte) string {
	out := make([]byte, len(stack))

	for i, tok := range stack {
		closer := byte('}')
		if tok == '[' {
			closer = ']'
		}

		out[len(stack)-1-i] = closer
	}

	return string(out)
}

// dropTrailingComma removes the rightmost comma in base, preserving any
// whitespace that follows it -- a completion like `{"a":1, }` would
// otherwise be invalid JSON, but `{"a":1 }` is not.
func dropTrailingComma(base string) string {
	i := len(base) - 1
	for i >= 0 && isSpaceByte(base[i]) {
		i--
	}

	if i < 0 || base[i] != ',' {
		return base
	}

	return base[:i] + base[i+1:]
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
