// Package script runs the small user scripts behind the Exec node.
//
// Two languages are available. "lisp" runs in a sandboxed zygomys
// interpreter with the input channels bound as V1, V2 and V3 and two
// builtins, out-append and out-extend, that collect the output. "cel" runs a
// single type-checked CEL expression over the same variables and uses its
// value as the output. Neither language can reach the filesystem or the
// network.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/nodekit/pkg/nested"
)

// DefaultTimeout is the hard limit for a single run.
const DefaultTimeout = 5 * time.Second

// Language selects the interpreter for a Request.
type Language string

const (
	Lisp Language = "lisp"
	CEL  Language = "cel"
)

var (
	// ErrTimeout is wrapped by errors for runs that exceeded the time limit.
	ErrTimeout = errors.New("script: timed out")

	// ErrSuperseded is wrapped by errors for runs that finished after a newer
	// run on the same Engine had started.
	ErrSuperseded = errors.New("script: superseded by newer request")

	// ErrUnsupportedValue is wrapped when a script produces a value that has
	// no channel representation, such as a function or a hash.
	ErrUnsupportedValue = errors.New("script: unsupported value")
)

// Error is a failed run: a parse or type error, a runtime error in user
// code, a timeout, or an output that cannot be converted.
type Error struct {
	Language Language
	Line     int
	Col      int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Language, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Language, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Request is one script run.
type Request struct {
	Language Language // defaults to Lisp
	Source   string
	// Vars holds the values bound as V1, V2 and V3. Missing entries are bound
	// to empty lists.
	Vars [3]nested.Value
}

// Engine runs scripts with a hard timeout. Each run gets a fresh
// interpreter, so runs never see each other's definitions. Results of a run
// that finishes after a newer run started on the same Engine are discarded.
type Engine struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	generation uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Timeout reports the per-run limit.
func (e *Engine) Timeout() time.Duration { return e.timeout }

type runResult struct {
	out nested.Value
	err error
}

// Run evaluates req and returns the collected output. The output is always a
// List. On any failure the partial output is dropped and the error is an
// *Error.
func (e *Engine) Run(ctx context.Context, req Request) (nested.Value, error) {
	lang := req.Language
	if lang == "" {
		lang = Lisp
	}
	var run func(context.Context, string, [3]nested.Value) (nested.List, error)
	switch lang {
	case Lisp:
		run = runLisp
	case CEL:
		run = runCEL
	default:
		return nil, &Error{Language: lang, Message: fmt.Sprintf("unknown language %q", lang)}
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan runResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- runResult{err: &Error{Language: lang, Message: fmt.Sprintf("panic during evaluation: %v", r)}}
			}
		}()
		out, err := run(runCtx, req.Source, req.Vars)
		ch <- runResult{out: out, err: err}
	}()

	start := time.Now()
	res := e.wait(runCtx, ch, gen, lang)
	if res.err != nil {
		e.logger.Debug("script failed",
			zap.String("language", string(lang)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(res.err))
		return nil, res.err
	}
	e.logger.Debug("script finished",
		zap.String("language", string(lang)),
		zap.Duration("elapsed", time.Since(start)))
	return res.out, nil
}

// wait blocks until the run reports back or ctx ends. On timeout the
// interpreter goroutine may still be running; the generation check makes
// sure its result is discarded when it eventually completes.
func (e *Engine) wait(ctx context.Context, ch <-chan runResult, gen uint64, lang Language) runResult {
	select {
	case res := <-ch:
		e.mu.Lock()
		current := e.generation
		e.mu.Unlock()
		if gen != current {
			return runResult{err: &Error{Language: lang, Message: ErrSuperseded.Error(), Err: ErrSuperseded}}
		}
		return res

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return runResult{err: &Error{
				Language: lang,
				Message:  fmt.Sprintf("evaluation timed out after %s", e.timeout),
				Err:      ErrTimeout,
			}}
		}
		return runResult{err: &Error{Language: lang, Message: ctx.Err().Error(), Err: ctx.Err()}}
	}
}

// inputs returns the three bound values with missing ones replaced by empty
// lists.
func inputs(vars [3]nested.Value) [3]nested.Value {
	for i, v := range vars {
		if v == nil {
			vars[i] = nested.List{}
		}
	}
	return vars
}

var varNames = [3]string{"V1", "V2", "V3"}
