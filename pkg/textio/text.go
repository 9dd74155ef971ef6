package textio

import (
	"strings"

	"github.com/chazu/nodekit/pkg/nested"
)

// prettyWidth is the line width SV pretty mode wraps at.
const prettyWidth = 80

// FormatToText writes one element per line. Data nested more than one level
// deep is written group by group: the sub-elements of a group are joined by
// newlines and consecutive groups are separated by a single newline, with no
// newline after the last one. Flat data ends every line with a newline.
func FormatToText(v nested.Value) string {
	var sb strings.Builder
	items := nested.Children(v)
	if nested.Depth(v) > 1 {
		for i, group := range items {
			if i > 0 {
				sb.WriteByte('\n')
			}
			for j, d := range nested.Children(group) {
				if j > 0 {
					sb.WriteByte('\n')
				}
				sb.WriteString(d.String())
			}
		}
		return sb.String()
	}
	for _, d := range items {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// SV writes v in its printed form, wrapped at 80 columns in pretty style.
func SV(v nested.Value, style Style) string {
	if style == Pretty {
		return nested.Pretty(v, prettyWidth)
	}
	return v.String()
}
