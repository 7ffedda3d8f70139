package main

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gpcgo/basis"
	"github.com/hupe1980/gpcgo/sampling"
)

type plotConfig struct {
	MaxDegree  int    `validate:"gte=0,lte=64"`
	Points     int    `validate:"gte=2,lte=100000"`
	Derivative bool
	Out        string `validate:"required"`
}

func newPlotCmd(rf *rootFlags) *cobra.Command {
	var (
		cfg plotConfig
		ff  familyFlags
	)

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the orthonormal polynomials of a family as an HTML chart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := rf.logger()
			if err != nil {
				return err
			}
			if err := validate.Struct(&cfg); err != nil {
				return err
			}
			spec, err := ff.Spec()
			if err != nil {
				return err
			}
			fam, err := basis.New(spec, basis.WithMaxDegree(max(cfg.MaxDegree, 1)))
			if err != nil {
				return err
			}

			f, err := os.Create(cfg.Out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := renderPlot(f, fam, cfg); err != nil {
				return err
			}
			logger.Info("plot written", "out", cfg.Out, "family", spec.Kind, "max_degree", cfg.MaxDegree)
			return f.Close()
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&cfg.MaxDegree, "max-degree", 4, "highest degree to plot")
	fl.IntVar(&cfg.Points, "points", 201, "grid points")
	fl.BoolVar(&cfg.Derivative, "derivative", false, "add a chart of the first derivatives")
	fl.StringVar(&cfg.Out, "out", "basis.html", "output HTML file")
	ff.register(cmd)

	return cmd
}

// plotRange returns the plotted interval: the support for bounded families,
// otherwise the central 99% of the measure.
func plotRange(f basis.Family) (lo, hi float64, err error) {
	lo, hi = f.Support()
	if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) {
		return lo, hi, nil
	}
	m, err := sampling.NewMarginal(f, rand.NewPCG(0, 0))
	if err != nil {
		return 0, 0, err
	}
	if math.IsInf(lo, 0) {
		lo = m.Quantile(0.005)
	}
	if math.IsInf(hi, 0) {
		hi = m.Quantile(0.995)
	}
	return lo, hi, nil
}

func renderPlot(w io.Writer, f basis.Family, cfg plotConfig) error {
	lo, hi, err := plotRange(f)
	if err != nil {
		return err
	}

	xs := make([]string, cfg.Points)
	vals := make([][]opts.LineData, cfg.MaxDegree+1)
	ders := make([][]opts.LineData, cfg.MaxDegree+1)
	for k := range vals {
		vals[k] = make([]opts.LineData, cfg.Points)
		ders[k] = make([]opts.LineData, cfg.Points)
	}

	v := make([]float64, cfg.MaxDegree+1)
	d := make([]float64, cfg.MaxDegree+1)
	for i := 0; i < cfg.Points; i++ {
		x := lo + (hi-lo)*float64(i)/float64(cfg.Points-1)
		xs[i] = strconv.FormatFloat(x, 'f', 3, 64)
		if err := f.Fill(x, v, d); err != nil {
			return err
		}
		for k := range v {
			vals[k][i] = opts.LineData{Value: v[k]}
			ders[k][i] = opts.LineData{Value: d[k]}
		}
	}

	title := fmt.Sprintf("%s polynomials", f.Kind())
	page := components.NewPage()
	page.AddCharts(lineChart(title, xs, vals))
	if cfg.Derivative {
		page.AddCharts(lineChart(title+" (derivative)", xs, ders))
	}
	return page.Render(w)
}

func lineChart(title string, xs []string, series [][]opts.LineData) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(xs)
	for k, data := range series {
		line.AddSeries("degree "+strconv.Itoa(k), data)
	}
	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)
	return line
}
