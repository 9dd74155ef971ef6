// Package textio turns channel data into text: plain lines, CSV, JSON and
// the value's own printed form. It also defines the sinks text is written to.
package textio

import (
	"errors"
	"fmt"

	"github.com/chazu/nodekit/pkg/nested"
)

// Channel is one input socket as seen by a serializer.
type Channel struct {
	// Label identifies the producer as "node:socket". JSON keys derive from it.
	Label  string
	Kind   nested.ChannelKind
	Value  nested.Value
	Linked bool
}

// empty reports whether the channel has nothing to contribute.
func (c Channel) empty() bool {
	if !c.Linked || c.Value == nil {
		return true
	}
	n, ok := nested.Len(c.Value)
	return ok && n == 0
}

// ErrSerializationShape is the sentinel behind SerializationShapeError.
var ErrSerializationShape = errors.New("textio: columns have different lengths")

// SerializationShapeError reports CSV columns that cannot be zipped into rows.
type SerializationShapeError struct {
	Column   int // index of the first column whose length differs
	Len      int
	Expected int
}

func (e *SerializationShapeError) Error() string {
	return fmt.Sprintf("textio: column %d has %d rows, expected %d", e.Column, e.Len, e.Expected)
}

func (e *SerializationShapeError) Unwrap() error { return ErrSerializationShape }

// Mode selects the text format of a dump.
type Mode string

const (
	ModeCSV  Mode = "CSV"
	ModeJSON Mode = "JSON"
	ModeSV   Mode = "SV"
	ModeText Mode = "TEXT"
)

// Style is the compact or pretty flavour of the SV and JSON modes.
type Style string

const (
	Compact Style = "compact"
	Pretty  Style = "pretty"
)

// Options configures Render. Zero values select the defaults: excel
// dialect, compact SV and pretty JSON.
type Options struct {
	Dialect   string
	SVStyle   Style
	JSONStyle Style
}

// Render produces the text for mode from the given channels. CSV and JSON use
// every channel; SV and TEXT use the first one only. An empty string means
// there is nothing to write.
func Render(mode Mode, opts Options, channels []Channel) (string, error) {
	switch mode {
	case ModeCSV:
		d, err := LookupDialect(opts.Dialect)
		if err != nil {
			return "", err
		}
		return CSV(channels, d)
	case ModeJSON:
		style := opts.JSONStyle
		if style == "" {
			style = Pretty
		}
		return JSON(channels, style)
	case ModeSV:
		if len(channels) == 0 || channels[0].empty() {
			return "", nil
		}
		return SV(channels[0].Value, opts.SVStyle), nil
	case ModeText:
		if len(channels) == 0 || !channels[0].Linked || channels[0].Value == nil {
			return "", nil
		}
		return FormatToText(channels[0].Value), nil
	}
	return "", fmt.Errorf("textio: unknown mode %q", mode)
}
