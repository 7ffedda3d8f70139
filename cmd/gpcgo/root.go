package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/gpcgo"
	"github.com/hupe1980/gpcgo/basis"
)

var validate = validator.New()

type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	var rf rootFlags

	root := &cobra.Command{
		Use:           "gpcgo",
		Short:         "Polynomial chaos design matrix and surrogate kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&rf.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(newBenchCmd(&rf), newPlotCmd(&rf))
	return root
}

func (rf *rootFlags) logger() (*gpcgo.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(rf.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", rf.logLevel, err)
	}
	switch strings.ToLower(rf.logFormat) {
	case "text":
		return gpcgo.NewTextLogger(level), nil
	case "json":
		return gpcgo.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", rf.logFormat)
	}
}

// familyFlags describes one family on the command line.
type familyFlags struct {
	kind string
	spec basis.Spec
}

func (ff *familyFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&ff.kind, "family", "legendre", "polynomial family (legendre, hermite, laguerre, jacobi)")
	f.Float64Var(&ff.spec.Lo, "lo", -1, "lower bound (legendre, jacobi)")
	f.Float64Var(&ff.spec.Hi, "hi", 1, "upper bound (legendre, jacobi)")
	f.Float64Var(&ff.spec.Mean, "mean", 0, "mean (hermite)")
	f.Float64Var(&ff.spec.Std, "std", 1, "standard deviation (hermite)")
	f.Float64Var(&ff.spec.Alpha, "alpha", 0, "shape parameter alpha (laguerre, jacobi)")
	f.Float64Var(&ff.spec.Beta, "beta", 0, "shape parameter beta (jacobi)")
	f.Float64Var(&ff.spec.Loc, "loc", 0, "location (laguerre)")
	f.Float64Var(&ff.spec.Scale, "scale", 1, "scale (laguerre)")
}

func (ff *familyFlags) Spec() (basis.Spec, error) {
	kind, err := basis.ParseKind(ff.kind)
	if err != nil {
		return basis.Spec{}, err
	}
	s := ff.spec
	s.Kind = kind
	return s, nil
}

// loadYAML decodes path into v and validates the result.
func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}
