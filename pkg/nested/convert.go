package nested

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FromAny converts decoded JSON/YAML data (and plain Go slices) into a Value.
// Arrays become Lists; json.Number literals without a fraction or exponent
// become Int. A nil input becomes an empty List.
func FromAny(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return List{}, nil
	case Value:
		return v, nil
	case int:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint64:
		return Int(int64(v)), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case string:
		return Str(v), nil
	case bool:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	case json.Number:
		s := v.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Int(n), nil
			}
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("nested: number %q: %w", s, err)
		}
		return Float(f), nil
	case []any:
		out := make(List, len(v))
		for i, it := range v {
			c, err := FromAny(it)
			if err != nil {
				return nil, fmt.Errorf("nested: index %d: %w", i, err)
			}
			out[i] = c
		}
		return out, nil
	case []float64:
		return Floats(v...), nil
	case []int:
		return Ints(v...), nil
	}
	return nil, fmt.Errorf("nested: unsupported value of type %T", x)
}

// ToAny converts a Value into plain Go data: int64, float64, string, []any.
// Handles are returned as their wrapped object.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case Str:
		return string(x)
	case Handle:
		return x.V
	case List:
		return seqToAny(x)
	case Tuple:
		return seqToAny(x)
	case *Block:
		items, _ := Items(x)
		return seqToAny(items)
	}
	return nil
}

func seqToAny(items []Value) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = ToAny(it)
	}
	return out
}
