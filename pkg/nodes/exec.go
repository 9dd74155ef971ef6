package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/nested"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/script"
	"github.com/chazu/nodekit/pkg/textio"
)

// ExecID is the Exec node identifier.
const ExecID = "SvExecNodeMod"

// defaultLines is the script a new Exec node starts with.
var defaultLines = []string{
	"; copy V1 to out, one entry per item",
	"(out-extend V1)",
	"",
}

// Exec runs a short user script over its three inputs. The script is kept
// as a list of lines that can be edited one at a time.
type Exec struct {
	Language string   `mapstructure:"language"`
	Lines    []string `mapstructure:"lines"`
	// Text names the sink entry CopyFromText loads.
	Text string `mapstructure:"text"`
	// StringStorage is the legacy JSON form {"lines": [...]}.
	StringStorage string `mapstructure:"string_storage"`

	engine *script.Engine
	sink   textio.Sink
	logger *zap.Logger
}

// NewExec builds an Exec node. A node without lines gets the default script.
func NewExec(props map[string]any, engine *script.Engine, sink textio.Sink, logger *zap.Logger) (*Exec, error) {
	n := &Exec{
		Language: string(script.Lisp),
		engine:   engine,
		sink:     sink,
		logger:   logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if err := node.DecodeProps(props, n); err != nil {
		return nil, err
	}
	switch script.Language(n.Language) {
	case script.Lisp, script.CEL:
	default:
		return nil, fmt.Errorf("unknown script language %q", n.Language)
	}
	if n.StringStorage != "" {
		if err := n.LoadLegacy(n.StringStorage); err != nil {
			return nil, err
		}
		n.StringStorage = ""
	}
	if n.Lines == nil {
		n.Lines = append([]string(nil), defaultLines...)
	}
	return n, nil
}

func (n *Exec) ID() string { return ExecID }
func (n *Exec) Label() string { return "Exec Node Mod" }

func (n *Exec) Inputs() []node.SocketSpec {
	return []node.SocketSpec{node.Strings("V1"), node.Strings("V2"), node.Strings("V3")}
}

func (n *Exec) Outputs() []node.SocketSpec { return []node.SocketSpec{node.Strings("out")} }

// Source is the script text.
func (n *Exec) Source() string {
	return strings.Join(n.Lines, "\n")
}

// SetSource replaces the script with text, one line per text line.
func (n *Exec) SetSource(text string) {
	n.Lines = splitLines(text)
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

// Process runs the script. On failure the error is returned and out is
// left unset.
func (n *Exec) Process(ctx context.Context, s *node.Sockets) error {
	var vars [3]nested.Value
	for i, name := range []string{"V1", "V2", "V3"} {
		if v, ok := s.Get(name); ok {
			vars[i] = v
		}
	}
	out, err := n.engine.Run(ctx, script.Request{
		Language: script.Language(n.Language),
		Source:   n.Source(),
		Vars:     vars,
	})
	if err != nil {
		n.logger.Warn("exec script failed", zap.Error(err))
		return fmt.Errorf("exec: %w", err)
	}
	return s.Set("out", out)
}

// ---------------------------------------------------------------------------
// Line editing
// ---------------------------------------------------------------------------

// AddLine appends an empty line.
func (n *Exec) AddLine() {
	n.Lines = append(n.Lines, "")
}

// RemoveLastLine drops the last line, always keeping at least one.
func (n *Exec) RemoveLastLine() {
	if len(n.Lines) > 1 {
		n.Lines = n.Lines[:len(n.Lines)-1]
	}
}

// ShiftUp moves every line up by one; the first line wraps to the bottom.
func (n *Exec) ShiftUp() {
	if len(n.Lines) < 2 {
		return
	}
	n.Lines = append(n.Lines[1:], n.Lines[0])
}

// ShiftDown moves every line down by one; the last line wraps to the top.
func (n *Exec) ShiftDown() {
	if len(n.Lines) < 2 {
		return
	}
	last := n.Lines[len(n.Lines)-1]
	n.Lines = append([]string{last}, n.Lines[:len(n.Lines)-1]...)
}

// DeleteBlank removes empty lines.
func (n *Exec) DeleteBlank() {
	out := make([]string, 0, len(n.Lines))
	for _, l := range n.Lines {
		if l != "" {
			out = append(out, l)
		}
	}
	n.Lines = out
}

// InsertBlank puts an empty line after every non-empty line.
func (n *Exec) InsertBlank() {
	out := make([]string, 0, 2*len(n.Lines))
	for _, l := range n.Lines {
		out = append(out, l)
		if l != "" {
			out = append(out, "")
		}
	}
	n.Lines = out
}

// InsertLine adds an empty line above or below line idx. Any other form
// than "above" inserts below.
func (n *Exec) InsertLine(idx int, form string) {
	out := make([]string, 0, len(n.Lines)+1)
	for i, l := range n.Lines {
		if form == "above" && i == idx {
			out = append(out, "")
		}
		out = append(out, l)
		if form != "above" && i == idx {
			out = append(out, "")
		}
	}
	n.Lines = out
}

// CopyFromText replaces the script with the sink entry named by Text.
func (n *Exec) CopyFromText() error {
	if n.Text == "" {
		return ErrNoTarget
	}
	text, err := n.sink.Read(n.Text)
	if err != nil {
		return fmt.Errorf("exec: copy from %s: %w", n.Text, err)
	}
	n.SetSource(text)
	return nil
}

// LoadLegacy reads the old {"lines": [...]} storage format.
func (n *Exec) LoadLegacy(storage string) error {
	var stored struct {
		Lines []string `json:"lines"`
	}
	if err := json.Unmarshal([]byte(storage), &stored); err != nil {
		return fmt.Errorf("exec: legacy storage: %w", err)
	}
	n.Lines = stored.Lines
	if n.Lines == nil {
		n.Lines = []string{}
	}
	return nil
}
