package script

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/nodekit/pkg/nested"
)

// runLisp evaluates source in a fresh zygomys sandbox. The sandbox cannot be
// interrupted, so ctx is only checked before the run starts; the Engine's
// timeout covers runaway scripts.
func runLisp(ctx context.Context, source string, vars [3]nested.Value) (nested.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, &Error{Language: Lisp, Message: err.Error(), Err: err}
	}
	out := nested.List{}
	if strings.TrimSpace(source) == "" {
		return out, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	vars = inputs(vars)
	for i, v := range vars {
		env.AddGlobal(varNames[i], toSexp(env, v))
	}
	registerOutput(env, &out)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err)
	}

	// A script that never touched the accumulator returns its final value,
	// when that value is a sequence.
	if len(out) == 0 && last != nil {
		switch last.(type) {
		case *zygo.SexpArray, *zygo.SexpPair:
			v, err := fromSexp(last)
			if err != nil {
				return nil, err
			}
			if l, ok := v.(nested.List); ok {
				return l, nil
			}
		}
	}
	return out, nil
}

// registerOutput installs out-append and out-extend, which the preprocessor
// spells out_append and out_extend.
func registerOutput(env *zygo.Zlisp, out *nested.List) {
	env.AddFunction("out_append", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for _, a := range args {
			v, err := fromSexp(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("out-append: %w", err)
			}
			*out = append(*out, v)
		}
		return zygo.SexpNull, nil
	})

	env.AddFunction("out_extend", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		for _, a := range args {
			v, err := fromSexp(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("out-extend: %w", err)
			}
			items, ok := nested.Items(v)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("out-extend: expected list or array, got %s", v)
			}
			*out = append(*out, items...)
		}
		return zygo.SexpNull, nil
	})
}

// toSexp converts channel data into zygomys values. Sequences of every kind
// become arrays so scripts can index them with aget.
func toSexp(env *zygo.Zlisp, v nested.Value) zygo.Sexp {
	switch x := v.(type) {
	case nested.Int:
		return &zygo.SexpInt{Val: int64(x)}
	case nested.Float:
		return &zygo.SexpFloat{Val: float64(x)}
	case nested.Str:
		return &zygo.SexpStr{S: string(x)}
	case nested.List, nested.Tuple, *nested.Block:
		items, _ := nested.Items(x)
		arr := make([]zygo.Sexp, len(items))
		for i, it := range items {
			arr[i] = toSexp(env, it)
		}
		return env.NewSexpArray(arr)
	}
	return zygo.SexpNull
}

// fromSexp converts a zygomys value back into channel data.
func fromSexp(s zygo.Sexp) (nested.Value, error) {
	switch x := s.(type) {
	case *zygo.SexpInt:
		return nested.Int(x.Val), nil
	case *zygo.SexpFloat:
		return nested.Float(x.Val), nil
	case *zygo.SexpStr:
		return nested.Str(x.S), nil
	case *zygo.SexpBool:
		if x.Val {
			return nested.Int(1), nil
		}
		return nested.Int(0), nil
	case *zygo.SexpArray:
		return fromSexpSlice(x.Val)
	case *zygo.SexpPair:
		items, err := zygo.ListToArray(x)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return fromSexpSlice(items)
	case *zygo.SexpSentinel:
		if x == zygo.SexpNull {
			return nested.List{}, nil
		}
	}
	return nil, &Error{
		Language: Lisp,
		Message:  fmt.Sprintf("cannot emit %T", s),
		Err:      ErrUnsupportedValue,
	}
}

func fromSexpSlice(items []zygo.Sexp) (nested.Value, error) {
	out := make(nested.List, len(items))
	for i, it := range items {
		v, err := fromSexp(it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into an *Error, pulling out the
// line number when the message carries one.
func parseZygomysError(err error) *Error {
	msg := err.Error()
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &Error{Language: Lisp, Line: line, Message: strings.TrimSpace(m[2]), Err: err}
		}
	}
	return &Error{Language: Lisp, Message: strings.TrimSpace(msg), Err: err}
}
