package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gpcgo"
	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/internal/kernel"
	gpcprom "github.com/hupe1980/gpcgo/metrics/prometheus"
	"github.com/hupe1980/gpcgo/multiindex"
	"github.com/hupe1980/gpcgo/sampling"
)

// benchConfig is the bench workload. A --config file overrides the flags.
type benchConfig struct {
	Engine  gpcgo.Config `yaml:"engine"`
	Dims    int          `yaml:"dims" validate:"gte=1,lte=64"`
	Order   int          `yaml:"order" validate:"gte=0,lte=128"`
	Samples int          `yaml:"samples" validate:"gte=1"`
	Outputs int          `yaml:"outputs" validate:"gte=1"`
	Grid    string       `yaml:"grid" validate:"oneof=random lhs"`
	Seed    uint64       `yaml:"seed"`
	Repeat  int          `yaml:"repeat" validate:"gte=1"`
}

type benchReport struct {
	Variant  string
	Basis    int
	Slots    int
	Build    timing
	Evaluate timing
	Residual float64 // max |design·coeffs - values|
}

type timing struct {
	Best, Mean time.Duration
}

func (t *timing) add(d time.Duration, i int) {
	if i == 0 || d < t.Best {
		t.Best = d
	}
	t.Mean += (d - t.Mean) / time.Duration(i+1)
}

func newBenchCmd(rf *rootFlags) *cobra.Command {
	var (
		cfg         benchConfig
		ff          familyFlags
		configPath  string
		metricsAddr string
		hold        bool
		traceSpans  bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time design matrix builds and surrogate evaluations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := rf.logger()
			if err != nil {
				return err
			}
			spec, err := ff.Spec()
			if err != nil {
				return err
			}
			cfg.Engine.Families = []basis.Spec{spec}

			if configPath != "" {
				err = loadYAML(configPath, &cfg)
			} else {
				err = validate.Struct(&cfg)
			}
			if err != nil {
				return err
			}
			if n := len(cfg.Engine.Families); n > 1 {
				cfg.Dims = n
			}

			var mc gpcgo.MetricsCollector = gpcgo.NoopMetricsCollector{}
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				reg.MustRegister(collectors.NewGoCollector())
				pc, err := gpcprom.NewCollector(reg)
				if err != nil {
					return err
				}
				mc = pc

				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server failed", "addr", metricsAddr, "error", err)
					}
				}()
				defer srv.Close()
				logger.Info("serving metrics", "addr", metricsAddr)
			}

			var opts []gpcgo.Option
			if traceSpans {
				exp, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
				if err != nil {
					return err
				}
				tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
				defer func() { _ = tp.Shutdown(context.Background()) }()
				opts = append(opts, gpcgo.WithTracerProvider(tp))
			}

			report, err := runBench(cmd.Context(), cfg, logger, mc, opts...)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), cfg, report)

			if hold && metricsAddr != "" {
				<-cmd.Context().Done()
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&cfg.Dims, "dims", 2, "number of input dimensions")
	f.IntVar(&cfg.Order, "order", 4, "total order of the multi-index set")
	f.IntVar(&cfg.Samples, "samples", 10000, "number of samples")
	f.IntVar(&cfg.Outputs, "outputs", 1, "number of surrogate outputs")
	f.StringVar(&cfg.Grid, "grid", "random", "sample grid (random, lhs)")
	f.Uint64Var(&cfg.Seed, "seed", 1, "random seed")
	f.IntVar(&cfg.Repeat, "repeat", 5, "timed repetitions per kernel")
	f.BoolVar(&cfg.Engine.Gradient, "gradient", false, "compute partial derivatives")
	f.IntVar(&cfg.Engine.Workers, "workers", 0, "workers per call (0 = GOMAXPROCS)")
	f.StringVar(&configPath, "config", "", "YAML workload file")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.BoolVar(&hold, "hold", false, "keep serving metrics until interrupted")
	f.BoolVar(&traceSpans, "trace", false, "print OpenTelemetry spans to stderr")
	ff.register(cmd)

	return cmd
}

func runBench(ctx context.Context, cfg benchConfig, logger *gpcgo.Logger, mc gpcgo.MetricsCollector, optFns ...gpcgo.Option) (*benchReport, error) {
	opts := append([]gpcgo.Option{gpcgo.WithLogger(logger), gpcgo.WithMetricsCollector(mc)}, optFns...)
	e, err := gpcgo.NewFromConfig(cfg.Engine, opts...)
	if err != nil {
		return nil, err
	}

	fams := e.Families()
	if len(fams) == 1 {
		for len(fams) < cfg.Dims {
			fams = append(fams, fams[0])
		}
	}

	table, err := multiindex.TotalOrder(cfg.Dims, cfg.Order)
	if err != nil {
		return nil, err
	}

	var samples *mat.Dense
	switch cfg.Grid {
	case "lhs":
		samples, err = sampling.LHS(fams, cfg.Samples, cfg.Seed)
	default:
		samples, err = sampling.Random(fams, cfg.Samples, cfg.Seed)
	}
	if err != nil {
		return nil, err
	}

	coeffs := mat.NewDense(table.Len(), cfg.Outputs, nil)
	rng := rand.New(rand.NewPCG(cfg.Seed, 1))
	for i := 0; i < table.Len(); i++ {
		decay := 1 / float64(1+table.TotalDegree(i))
		for j := 0; j < cfg.Outputs; j++ {
			coeffs.Set(i, j, rng.NormFloat64()*decay)
		}
	}

	slots := e.Slots(cfg.Dims)
	design := gpcgo.NewArray3(cfg.Samples, table.Len(), slots)
	values := mat.NewDense(cfg.Samples, cfg.Outputs, nil)
	var grads *gpcgo.Array3
	if e.Gradient() {
		grads = gpcgo.NewArray3(cfg.Samples, cfg.Outputs, cfg.Dims)
	}

	report := &benchReport{
		Variant: kernel.ActiveVariant().String(),
		Basis:   table.Len(),
		Slots:   slots,
	}
	logger.Info("bench started",
		"samples", cfg.Samples, "basis", table.Len(), "dims", cfg.Dims,
		"kernel", report.Variant, "workers", e.Workers())

	for i := 0; i < cfg.Repeat; i++ {
		start := time.Now()
		if err := e.BuildDesignMatrix(ctx, samples, table, design); err != nil {
			return nil, err
		}
		report.Build.add(time.Since(start), i)

		start = time.Now()
		if err := e.Evaluate(ctx, samples, table, coeffs, values, grads); err != nil {
			return nil, err
		}
		report.Evaluate.add(time.Since(start), i)
	}

	var diff mat.Dense
	diff.Mul(design.Plane(0), coeffs)
	diff.Sub(&diff, values)
	report.Residual = mat.Max(absDense(&diff))

	logger.Info("bench finished", "build", report.Build.Best, "evaluate", report.Evaluate.Best, "residual", report.Residual)
	return report, nil
}

func absDense(m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return math.Abs(v) }, m)
	return &out
}

func printReport(w io.Writer, cfg benchConfig, r *benchReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "kernel\t%s\n", r.Variant)
	fmt.Fprintf(tw, "samples\t%d\n", cfg.Samples)
	fmt.Fprintf(tw, "basis rows\t%d\n", r.Basis)
	fmt.Fprintf(tw, "slots\t%d\n", r.Slots)
	fmt.Fprintf(tw, "outputs\t%d\n", cfg.Outputs)
	fmt.Fprintf(tw, "build best/mean\t%s / %s\n", r.Build.Best, r.Build.Mean)
	fmt.Fprintf(tw, "evaluate best/mean\t%s / %s\n", r.Evaluate.Best, r.Evaluate.Mean)
	fmt.Fprintf(tw, "residual\t%.3e\n", r.Residual)
	tw.Flush()
}
