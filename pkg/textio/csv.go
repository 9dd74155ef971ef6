package textio

import (
	"fmt"
	"strings"

	"github.com/chazu/nodekit/pkg/nested"
)

// Dialect describes how CSV cells and rows are delimited.
type Dialect struct {
	Name       string
	Delimiter  byte
	Terminator string
	QuoteAll   bool
}

var dialects = map[string]Dialect{
	"excel":     {Name: "excel", Delimiter: ',', Terminator: "\r\n"},
	"excel-tab": {Name: "excel-tab", Delimiter: '\t', Terminator: "\r\n"},
	"unix":      {Name: "unix", Delimiter: ',', Terminator: "\n", QuoteAll: true},
}

// LookupDialect returns a named dialect; the empty name is excel.
func LookupDialect(name string) (Dialect, error) {
	if name == "" {
		name = "excel"
	}
	d, ok := dialects[name]
	if !ok {
		return Dialect{}, fmt.Errorf("textio: unknown csv dialect %q", name)
	}
	return d, nil
}

// CSV writes the linked channels as columns. Each top-level element of a
// channel is one column, so a channel holding two lists contributes two
// columns. Row i holds element i of every column.
func CSV(channels []Channel, d Dialect) (string, error) {
	var cols [][]nested.Value
	for _, c := range channels {
		if c.empty() {
			continue
		}
		for _, col := range nested.Children(c.Value) {
			cols = append(cols, nested.Children(col))
		}
	}
	if len(cols) == 0 {
		return "", nil
	}

	rows := len(cols[0])
	for i, col := range cols[1:] {
		if len(col) != rows {
			return "", &SerializationShapeError{Column: i + 1, Len: len(col), Expected: rows}
		}
	}

	var sb strings.Builder
	for r := 0; r < rows; r++ {
		for c, col := range cols {
			if c > 0 {
				sb.WriteByte(d.Delimiter)
			}
			d.writeField(&sb, col[r].String())
		}
		sb.WriteString(d.Terminator)
	}
	return sb.String(), nil
}

func (d Dialect) writeField(sb *strings.Builder, field string) {
	if !d.QuoteAll && !d.needsQuotes(field) {
		sb.WriteString(field)
		return
	}
	sb.WriteByte('"')
	sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
	sb.WriteByte('"')
}

func (d Dialect) needsQuotes(field string) bool {
	return strings.IndexByte(field, d.Delimiter) >= 0 ||
		strings.ContainsAny(field, "\"\r\n")
}
