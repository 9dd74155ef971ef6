package nested

import "strings"

// Pretty renders v like Repr, but breaks sequences that do not fit in width
// columns one element per line, aligned under the opening bracket.
func Pretty(v Value, width int) string {
	return pretty(v, 0, width)
}

func pretty(v Value, indent, width int) string {
	r := Repr(v)
	if indent+len(r) <= width {
		return r
	}
	var open, close string
	var items []Value
	switch x := v.(type) {
	case List:
		open, close, items = "[", "]", x
	case Tuple:
		open, close, items = "(", ")", x
		if len(x) == 1 {
			close = ",)"
		}
	default:
		return r
	}
	if len(items) == 0 {
		return r
	}
	parts := make([]string, len(items))
	for i, it := range items {
		// every element but the last is followed by a comma
		w := width - 1
		if i == len(items)-1 {
			w = width - len(close)
		}
		parts[i] = pretty(it, indent+1, w)
	}
	return open + strings.Join(parts, ",\n"+strings.Repeat(" ", indent+1)) + close
}
