package nested

// MatchLongRepeat pads every list to the length of the longest one by
// repeating its last element. Empty lists stay empty.
func MatchLongRepeat(lists [][]Value) [][]Value {
	maxLen := 0
	for _, l := range lists {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	out := make([][]Value, len(lists))
	for i, l := range lists {
		padded := make([]Value, len(l), maxLen)
		copy(padded, l)
		if len(l) > 0 {
			last := l[len(l)-1]
			for len(padded) < maxLen {
				padded = append(padded, last)
			}
		}
		out[i] = padded
	}
	return out
}

// ZipLongRepeat pads the lists with MatchLongRepeat and returns them as rows:
// row i holds element i of every list. If any list is empty there are no rows.
func ZipLongRepeat(lists ...[]Value) [][]Value {
	if len(lists) == 0 {
		return nil
	}
	padded := MatchLongRepeat(lists)
	n := len(padded[0])
	for _, l := range padded[1:] {
		n = min(n, len(l))
	}
	rows := make([][]Value, n)
	for i := range rows {
		row := make([]Value, len(padded))
		for j, l := range padded {
			row[j] = l[i]
		}
		rows[i] = row
	}
	return rows
}

// CycleTo repeats list cyclically until it has n elements. Lists that are
// already long enough, or empty, are returned unchanged.
func CycleTo(n int, list []Value) []Value {
	if len(list) == 0 || len(list) >= n {
		return list
	}
	out := make([]Value, n)
	for i := range out {
		out[i] = list[i%len(list)]
	}
	return out
}

// Children is Items for callers that treat a leaf as a one-element list, the
// way channel readers do when a socket carries a bare value.
func Children(v Value) []Value {
	if v == nil {
		return nil
	}
	if items, ok := Items(v); ok {
		return items
	}
	return []Value{v}
}
