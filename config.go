package gpcgo

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/gpcgo/basis"
)

// Config is the declarative form of an Engine.
//
//	families:
//	  - kind: legendre
//	    lo: 0
//	    hi: 1
//	  - kind: hermite
//	    mean: 0
//	    std: 2
//	gradient: true
//	workers: 0
type Config struct {
	// Families holds one entry shared by all dimensions or one per dimension.
	Families []basis.Spec `yaml:"families" json:"families" validate:"min=1"`

	// Gradient enables partial derivatives.
	Gradient bool `yaml:"gradient" json:"gradient"`

	// Workers per call; <= 0 means runtime.GOMAXPROCS(0).
	Workers int `yaml:"workers" json:"workers" validate:"gte=0"`

	// ParallelThreshold is the smallest batch split across workers.
	// 0 keeps the default.
	ParallelThreshold int `yaml:"parallel_threshold,omitempty" json:"parallel_threshold,omitempty" validate:"gte=0"`

	// MaxDegree sizes the recurrence tables. 0 keeps basis.DefaultMaxDegree.
	MaxDegree int `yaml:"max_degree,omitempty" json:"max_degree,omitempty" validate:"gte=0"`
}

// ParseConfig decodes a YAML engine configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, translateError(fmt.Errorf("gpcgo: parse config: %w", err))
	}
	return cfg, nil
}

// Options converts the configuration into engine options.
func (c Config) Options() ([]Option, error) {
	if len(c.Families) == 0 {
		return nil, fmt.Errorf("%w: no family configured", ErrInvalidBasisFamily)
	}
	var famOpts []basis.Option
	if c.MaxDegree > 0 {
		famOpts = append(famOpts, basis.WithMaxDegree(c.MaxDegree))
	}
	fams := make([]basis.Family, len(c.Families))
	for i, spec := range c.Families {
		f, err := basis.New(spec, famOpts...)
		if err != nil {
			return nil, translateError(fmt.Errorf("family %d: %w", i, err))
		}
		fams[i] = f
	}

	opts := []Option{
		WithFamilies(fams...),
		WithGradient(c.Gradient),
		WithWorkers(c.Workers),
	}
	if c.ParallelThreshold > 0 {
		opts = append(opts, WithParallelThreshold(c.ParallelThreshold))
	}
	return opts, nil
}

// NewFromConfig creates an Engine from cfg. optFns are applied after the
// configuration and may override it.
func NewFromConfig(cfg Config, optFns ...Option) (*Engine, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(append(opts, optFns...)...)
}
