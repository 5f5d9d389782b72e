package deltastream

import "strings"

// ComputeDelta returns the minimal change from prev to curr per §4.4,
// dispatching on the dynamic kind of curr: numbers, Booleans, and null are
// always included verbatim; strings contribute only their unseen suffix
// when curr extends prev; sequences pair up element-wise; mappings recurse
// key-by-key and drop keys absent from curr. prev may be nil, meaning
// every key in curr is new.
//
// The values here are the map[string]any / []any / string / float64 / bool
// / nil shapes a JSON decoder produces -- the same shapes ComputeDelta's
// own recursive calls operate on.
func ComputeDelta(prev, curr any) any {
	switch c := curr.(type) {
	case string:
		return deltaString(prev, c)

	case []any:
		return deltaSequence(prev, c)

	case map[string]any:
		return deltaMapping(prev, c)

	default:
		// number, bool, nil: always included verbatim, and also the
		// type-change fallback when prev's kind differs from curr's.
		return curr
	}
}

func deltaString(prev any, curr string) any {
	prevStr, ok := prev.(string)
	if !ok {
		if prev == nil {
			prevStr = ""
		} else {
			// Type change: curr is a string but prev was some other kind.
			return curr
		}
	}

	if strings.HasPrefix(curr, prevStr) {
		return curr[len(prevStr):]
	}

	return curr
}

func deltaSequence(prev any, curr []any) []any {
	prevSeq, _ := prev.([]any)

	out := make([]any, len(curr))

	for i, v := range curr {
		var prevElem any
		if i < len(prevSeq) {
			prevElem = prevSeq[i]
		}

		out[i] = ComputeDelta(prevElem, v)
	}

	return out
}

func deltaMapping(prev any, curr map[string]any) map[string]any {
	prevMap, _ := prev.(map[string]any)

	out := make(map[string]any, len(curr))

	for k, v := range curr {
		out[k] = ComputeDelta(prevMap[k], v)
	}

	return out
}

// ApplyDelta overlays delta onto prev under the application law of §4.4:
// strings append when both sides are strings, sequences merge element-wise,
// mappings overlay with prev-only keys preserved, and everything else is
// replaced outright. It is the inverse ComputeDelta is tested against
// (P3, P5) and is also useful to callers reconstructing a full snapshot
// from a stream of deltas.
func ApplyDelta(prev, delta any) any {
	switch d := delta.(type) {
	case string:
		if prevStr, ok := prev.(string); ok {
			return prevStr + d
		}

		return d

	case []any:
		prevSeq, _ := prev.([]any)

		out := make([]any, len(d))

		for i, v := range d {
			var prevElem any
			if i < len(prevSeq) {
				prevElem = prevSeq[i]
			}

			out[i] = ApplyDelta(prevElem, v)
		}

		return out

	case map[string]any:
		prevMap, _ := prev.(map[string]any)

		out := make(map[string]any, len(prevMap)+len(d))
		for k, v := range prevMap {
			out[k] = v
		}

		for k, v := range d {
			var prevElem any
			if prevMap != nil {
				prevElem = prevMap[k]
			}

			out[k] = ApplyDelta(prevElem, v)
		}

		return out

	default:
		return delta
	}
}
