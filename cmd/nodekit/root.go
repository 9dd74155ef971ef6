package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/nodekit/internal/config"
	"github.com/chazu/nodekit/internal/logging"
	"github.com/chazu/nodekit/pkg/kernel/sdfx"
	"github.com/chazu/nodekit/pkg/node"
	"github.com/chazu/nodekit/pkg/nodes"
	"github.com/chazu/nodekit/pkg/script"
	"github.com/chazu/nodekit/pkg/textio"
)

var rootCmd = &cobra.Command{
	Use:           "nodekit",
	Short:         "Evaluate nodekit nodes from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level from the configuration")
}

// env is everything a command needs: configuration, logger, registry and
// the evaluator.
type env struct {
	cfg       *config.Config
	logger    *zap.Logger
	sink      textio.Sink
	registry  *node.Registry
	evaluator *node.Evaluator
	metrics   *prometheus.Registry
}

func newEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.ScriptTimeout()
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		logger: logger,
		sink:   textio.FileSink{Dir: cfg.Text.Dir},
	}

	deps := nodes.Deps{
		Logger:         logger,
		Sink:           e.sink,
		ScriptOptions:  []script.Option{script.WithTimeout(timeout)},
		ScriptLanguage: script.Language(cfg.Script.Language),
	}
	if cfg.Lloyd.Enabled {
		deps.Relaxer = sdfx.NewRelaxer(cfg.Lloyd.Cells, logger)
	}
	e.registry = node.NewRegistry(logger)
	nodes.Register(e.registry, deps)

	opts := []node.EvaluatorOption{node.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		e.metrics = prometheus.NewRegistry()
		opts = append(opts, node.WithMetrics(node.NewMetrics(e.metrics)))
	}
	e.evaluator = node.NewEvaluator(opts...)
	return e, nil
}

// reportMetrics logs every collected sample. It is a no-op when metrics are
// disabled.
func (e *env) reportMetrics() {
	if e.metrics == nil {
		return
	}
	families, err := e.metrics.Gather()
	if err != nil {
		e.logger.Warn("gather metrics", zap.Error(err))
		return
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			fields := []zap.Field{zap.String("metric", f.GetName())}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()))
			}
			e.logger.Info("metric", fields...)
		}
	}
}
