package node

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrPanic wraps a panic recovered from a node's Process.
var ErrPanic = errors.New("node: panic during evaluation")

// Evaluation outcomes recorded in metrics.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Metrics holds the evaluator's prometheus collectors.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nodekit_node_evaluations_total",
				Help: "Total number of node evaluations by outcome",
			},
			[]string{"node", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nodekit_node_evaluation_seconds",
				Help:    "Duration of node evaluations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"node"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Evaluations, m.Duration)
	}
	return m
}

// Evaluator runs nodes with panic recovery, logging and metrics.
type Evaluator struct {
	logger  *zap.Logger
	metrics *Metrics
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the evaluator's logger.
func WithLogger(l *zap.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches prometheus collectors.
func WithMetrics(m *Metrics) EvaluatorOption {
	return func(e *Evaluator) {
		e.metrics = m
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate calls n.Process. A panic inside the node is turned into an error
// wrapping ErrPanic.
func (e *Evaluator) Evaluate(ctx context.Context, n Node, s *Sockets) (err error) {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomePanic
			err = fmt.Errorf("%w: %s: %v", ErrPanic, n.ID(), r)
		}
		elapsed := time.Since(start)
		if e.metrics != nil {
			e.metrics.Evaluations.WithLabelValues(n.ID(), outcome).Inc()
			e.metrics.Duration.WithLabelValues(n.ID()).Observe(elapsed.Seconds())
		}
		if err != nil {
			e.logger.Warn("node evaluation failed",
				zap.String("node", n.ID()),
				zap.String("outcome", outcome),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			return
		}
		e.logger.Debug("node evaluated",
			zap.String("node", n.ID()),
			zap.Strings("outputs", s.OutputNames()),
			zap.Duration("elapsed", elapsed))
	}()

	if err = n.Process(ctx, s); err != nil {
		outcome = OutcomeError
	}
	return err
}
