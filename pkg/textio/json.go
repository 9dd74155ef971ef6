package textio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/chazu/nodekit/pkg/nested"
)

const socketOrderKey = "socket_order"

// JSON writes the non-empty linked channels as one object. Each channel is
// stored under its label as [kindLetter, data]; repeated labels get a
// numeric suffix. A final "socket_order" key lists the keys in input order.
func JSON(channels []Channel, style Style) (string, error) {
	doc := orderedmap.New[string, any]()
	order := []string{}
	for _, c := range channels {
		if c.empty() {
			continue
		}
		name := c.Label
		for j := 1; ; j++ {
			if _, taken := doc.Get(name); !taken {
				break
			}
			name = c.Label + strconv.Itoa(j)
		}
		doc.Set(name, []any{c.Kind.Letter(), c.Value})
		order = append(order, name)
	}
	doc.Set(socketOrderKey, order)

	raw, err := encodeOrdered(doc)
	if err != nil {
		return "", fmt.Errorf("textio: encode json: %w", err)
	}
	if style != Pretty {
		return string(raw), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return "", fmt.Errorf("textio: indent json: %w", err)
	}
	return buf.String(), nil
}

// encodeOrdered writes doc as a JSON object in insertion order, leaving <, >
// and & unescaped.
func encodeOrdered(doc *orderedmap.OrderedMap[string, any]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, err := nested.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		val, err := nested.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
