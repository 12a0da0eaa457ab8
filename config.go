package metricsplot

import (
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReportConfig declares pattern groups in YAML:
//
//	groups:
//	  - name: transactions
//	    patterns:
//	      - regex: '(?P<tx>.*)_success'
//	        kind: rate
//	      - regex: '(?P<tx>.*)_error'
//	        kind: line
type ReportConfig struct {
	Groups []PatternGroupConfig `yaml:"groups"`
}

type PatternGroupConfig struct {
	Name     string          `yaml:"name"`
	Patterns []PatternConfig `yaml:"patterns"`
}

type PatternConfig struct {
	Regex string   `yaml:"regex"`
	Kind  PlotKind `yaml:"kind"`
}

// Build compiles every group. All invalid patterns are reported together.
func (c ReportConfig) Build() ([]*PatternGroup, error) {
	var (
		groups []*PatternGroup
		result *multierror.Error
	)
	for _, gc := range c.Groups {
		patterns := make([]Pattern, 0, len(gc.Patterns))
		for _, pc := range gc.Patterns {
			patterns = append(patterns, Pattern{Expr: pc.Regex, Kind: pc.Kind})
		}
		g, err := NewPatternGroup(gc.Name, patterns...)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		groups = append(groups, g)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return groups, nil
}

// LoadPatternGroups decodes a ReportConfig from r and compiles its groups.
// Empty input yields no groups.
func LoadPatternGroups(r io.Reader) ([]*PatternGroup, error) {
	var cfg ReportConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "metrics: decode report config")
	}
	return cfg.Build()
}

// LoadPatternGroupsFile reads pattern groups from a YAML file.
func LoadPatternGroupsFile(path string) ([]*PatternGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "metrics: open %s", path)
	}
	defer f.Close()

	groups, err := LoadPatternGroups(f)
	if err != nil {
		return nil, errors.Wrapf(err, "metrics: load %s", path)
	}
	return groups, nil
}
