package script

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	"github.com/chazu/nodekit/pkg/nested"
)

// celInterruptFrequency is how many comprehension iterations run between
// checks of the context.
const celInterruptFrequency = 100

// runCEL compiles and evaluates a single CEL expression. A list result is
// the output; any other value becomes a one-element output.
func runCEL(ctx context.Context, source string, vars [3]nested.Value) (nested.List, error) {
	env, err := cel.NewEnv(
		cel.Variable(varNames[0], cel.DynType),
		cel.Variable(varNames[1], cel.DynType),
		cel.Variable(varNames[2], cel.DynType),
	)
	if err != nil {
		return nil, &Error{Language: CEL, Message: fmt.Sprintf("environment: %v", err), Err: err}
	}

	ast, iss := env.Compile(source)
	if iss != nil && iss.Err() != nil {
		return nil, &Error{Language: CEL, Message: iss.Err().Error(), Err: iss.Err()}
	}
	prg, err := env.Program(ast, cel.InterruptCheckFrequency(celInterruptFrequency))
	if err != nil {
		return nil, &Error{Language: CEL, Message: err.Error(), Err: err}
	}

	vars = inputs(vars)
	activation := make(map[string]any, len(vars))
	for i, v := range vars {
		activation[varNames[i]] = nested.ToAny(v)
	}
	val, _, err := prg.ContextEval(ctx, activation)
	if err != nil {
		return nil, &Error{Language: CEL, Message: err.Error(), Err: err}
	}

	v, err := fromRefVal(val)
	if err != nil {
		return nil, err
	}
	if l, ok := v.(nested.List); ok {
		return l, nil
	}
	return nested.List{v}, nil
}

func fromRefVal(val ref.Val) (nested.Value, error) {
	switch x := val.(type) {
	case types.Int:
		return nested.Int(x), nil
	case types.Uint:
		return nested.Int(int64(x)), nil
	case types.Double:
		return nested.Float(x), nil
	case types.String:
		return nested.Str(x), nil
	case types.Bool:
		if x {
			return nested.Int(1), nil
		}
		return nested.Int(0), nil
	case types.Null:
		return nested.List{}, nil
	case traits.Lister:
		size, ok := x.Size().(types.Int)
		if !ok {
			break
		}
		out := make(nested.List, int(size))
		for i := range out {
			item, err := fromRefVal(x.Get(types.Int(i)))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	}
	return nil, &Error{
		Language: CEL,
		Message:  fmt.Sprintf("cannot emit %s value", val.Type().TypeName()),
		Err:      ErrUnsupportedValue,
	}
}
