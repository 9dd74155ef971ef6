package nodes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/textio"
)

// TextOutID is the Text Out node identifier.
const TextOutID = "SvTextOutNodeMK2"

// ErrNoTarget is returned by Dump when no text name is configured.
var ErrNoTarget = errors.New("text out: no target text")

// TextOut writes channel data to a named text in a sink.
type TextOut struct {
	Text       string `mapstructure:"text"`
	TextMode   string `mapstructure:"text_mode"`
	CSVDialect string `mapstructure:"csv_dialect"`
	SVMode     string `mapstructure:"sv_mode"`
	JSONMode   string `mapstructure:"json_mode"`
	Append     bool   `mapstructure:"append"`
	Autodump   bool   `mapstructure:"autodump"`

	sink   textio.Sink
	logger *zap.Logger
}

// NewTextOut builds a Text Out node writing to sink.
func NewTextOut(props map[string]any, sink textio.Sink, logger *zap.Logger) (*TextOut, error) {
	n := &TextOut{
		TextMode:   string(textio.ModeCSV),
		CSVDialect: "excel",
		SVMode:     string(textio.Compact),
		JSONMode:   string(textio.Pretty),
		sink:       sink,
		logger:     logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	switch textio.Mode(n.TextMode) {
	case textio.ModeCSV, textio.ModeJSON, textio.ModeSV, textio.ModeText:
	default:
		return nil, fmt.Errorf("unknown text mode %q", n.TextMode)
	}
	if _, err := textio.LookupDialect(n.CSVDialect); err != nil {
		return nil, err
	}
	if err := checkStyle("sv_mode", n.SVMode); err != nil {
		return nil, err
	}
	if err := checkStyle("json_mode", n.JSONMode); err != nil {
		return nil, err
	}
	return n, nil
}

func checkStyle(prop, v string) error {
	switch textio.Style(v) {
	case textio.Compact, textio.Pretty:
		return nil
	}
	return fmt.Errorf("%s: unknown style %q", prop, v)
}

func (n *TextOut) ID() string { return TextOutID }
func (n *TextOut) Label() string { return "Text Out+" }

// baseName is the prefix of the numbered sockets in CSV and JSON modes.
func (n *TextOut) baseName() string {
	if textio.Mode(n.TextMode) == textio.ModeJSON {
		return "Data "
	}
	return "Col "
}

// Inputs lists the sockets of the current mode. CSV and JSON modes grow a
// new numbered socket whenever the last one is linked.
func (n *TextOut) Inputs() []node.SocketSpec {
	switch textio.Mode(n.TextMode) {
	case textio.ModeSV:
		return []node.SocketSpec{node.Strings("Data")}
	case textio.ModeText:
		return []node.SocketSpec{node.Strings("Text")}
	}
	return []node.SocketSpec{node.Strings(n.baseName() + "0")}
}

func (n *TextOut) Outputs() []node.SocketSpec { return nil }

// Process dumps on every evaluation when autodump is on. Autodump always
// overwrites.
func (n *TextOut) Process(ctx context.Context, s *node.Sockets) error {
	if !n.Autodump {
		return nil
	}
	n.Append = false
	_, err := n.Dump(s)
	return err
}

// numberedInputs returns the linked inputs named base followed by a socket
// number, ordered by that number. Gaps between numbers are skipped.
func numberedInputs(s *node.Sockets, base string) []string {
	type numbered struct {
		name string
		i    int
	}
	var found []numbered
	for _, name := range s.InputNames() {
		suffix, ok := strings.CutPrefix(name, base)
		if !ok {
			continue
		}
		i, err := strconv.Atoi(suffix)
		if err != nil || i < 0 {
			continue
		}
		found = append(found, numbered{name, i})
	}
	sort.Slice(found, func(a, b int) bool { return found[a].i < found[b].i })
	names := make([]string, len(found))
	for k, f := range found {
		names[k] = f.name
	}
	return names
}

// channels collects the linked inputs in socket order.
func (n *TextOut) channels(s *node.Sockets) []textio.Channel {
	var names []string
	switch textio.Mode(n.TextMode) {
	case textio.ModeSV:
		names = []string{"Data"}
	case textio.ModeText:
		names = []string{"Text"}
	default:
		names = numberedInputs(s, n.baseName())
	}
	var out []textio.Channel
	for _, name := range names {
		link := s.Link(name)
		if link == nil {
			continue
		}
		out = append(out, textio.Channel{
			Label:  link.String(),
			Kind:   link.Kind,
			Value:  s.GetOr(name, nested.List{}),
			Linked: true,
		})
	}
	return out
}

// Render returns the text the node would write.
func (n *TextOut) Render(s *node.Sockets) (string, error) {
	return textio.Render(textio.Mode(n.TextMode), textio.Options{
		Dialect:   n.CSVDialect,
		SVStyle:   textio.Style(n.SVMode),
		JSONStyle: textio.Style(n.JSONMode),
	}, n.channels(s))
}

// Dump writes the rendered text to the sink, replacing it unless Append is
// set. It reports false without writing when there is nothing to write.
func (n *TextOut) Dump(s *node.Sockets) (bool, error) {
	out, err := n.Render(s)
	if err != nil {
		return false, err
	}
	if out == "" {
		return false, nil
	}
	if n.Text == "" {
		return false, ErrNoTarget
	}
	if err := n.sink.Write(n.Text, out, n.Append); err != nil {
		return false, fmt.Errorf("text out: write %s: %w", n.Text, err)
	}
	n.logger.Debug("text dumped",
		zap.String("text", n.Text),
		zap.String("mode", n.TextMode),
		zap.Int("bytes", len(out)),
		zap.Bool("append", n.Append))
	return true, nil
}
