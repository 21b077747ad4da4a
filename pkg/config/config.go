// Package config defines the YAML configuration of the kneescan tool server
// and the clustering defaults it applies to incoming requests.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sanonone/kneescan/pkg/clustering"
	"github.com/sanonone/kneescan/pkg/core/distance"
	"github.com/sanonone/kneescan/pkg/curvature"
	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of the configuration file.
type Config struct {
	Clustering ClusteringConfig `yaml:"clustering"`
	Server     ServerConfig     `yaml:"server"`
}

// ClusteringConfig holds the defaults used when a request leaves a field out.
type ClusteringConfig struct {
	MinPts     int     `yaml:"min_pts"`
	Eps        float64 `yaml:"eps"`       // 0 = automatic
	Curvature  string  `yaml:"curvature"` // "amethod", "kneedle"
	Metric     string  `yaml:"metric"`    // "euclidean", "cosine"
	Precision  string  `yaml:"precision"` // "float32", "float16"
	Workers    int     `yaml:"workers"`
	PivotIndex bool    `yaml:"pivot_index"`
}

// ServerConfig configures the MCP tool server.
type ServerConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	LogLevel  string `yaml:"log_level"` // "debug", "info", "warn", "error"
	MaxPoints int    `yaml:"max_points"`
}

// DefaultConfig returns a working configuration: automatic eps with Amethod,
// Euclidean float32 vectors, sequential execution.
func DefaultConfig() Config {
	return Config{
		Clustering: ClusteringConfig{
			MinPts:    4,
			Eps:       0,
			Curvature: curvature.StrategyAmethod,
			Metric:    string(distance.Euclidean),
			Precision: string(distance.Float32),
			Workers:   1,
		},
		Server: ServerConfig{
			Name:      "kneescan",
			Version:   "0.1.0",
			LogLevel:  "info",
			MaxPoints: 20000,
		},
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig.
// Environment variables in the file are expanded and unknown fields are
// rejected, so typos do not pass silently.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	cc := c.Clustering
	if cc.MinPts < 1 {
		return fmt.Errorf("clustering.min_pts must be >= 1, got %d", cc.MinPts)
	}
	if cc.Eps < 0 {
		return fmt.Errorf("clustering.eps must be >= 0, got %g", cc.Eps)
	}
	if _, err := curvature.ByName(cc.Curvature); err != nil {
		return err
	}
	if _, err := distance.GetFloat32Func(distance.DistanceMetric(cc.Metric)); err != nil {
		return err
	}
	switch distance.PrecisionType(cc.Precision) {
	case distance.Float32, distance.Float16:
	default:
		return fmt.Errorf("clustering.precision '%s' not supported", cc.Precision)
	}
	if cc.PivotIndex && !distance.IsMetric(distance.DistanceMetric(cc.Metric)) {
		return fmt.Errorf("clustering.pivot_index requires a metric distance, '%s' is not", cc.Metric)
	}
	if c.Server.MaxPoints < 0 {
		return fmt.Errorf("server.max_points must be >= 0, got %d", c.Server.MaxPoints)
	}
	return nil
}

// Options translates the clustering section into engine options.
func (c ClusteringConfig) Options() ([]clustering.Option, error) {
	det, err := curvature.ByName(c.Curvature)
	if err != nil {
		return nil, err
	}
	opts := []clustering.Option{clustering.WithWorkers(c.Workers)}
	// Amethod is stateless: let the engine use the shared instance.
	if _, ok := det.(*curvature.Amethod); !ok {
		opts = append(opts, clustering.WithDetector(det))
	}
	if c.PivotIndex {
		opts = append(opts, clustering.WithPivotIndex())
	}
	return opts, nil
}
