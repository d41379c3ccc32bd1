package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/banshee-data/mapcluster/internal/cluster"
)

// Strategy names accepted in LayerConfig.Strategy.
const (
	StrategyGrid   = "grid"
	StrategyDBSCAN = "dbscan"
)

// Defaults applied by the Get* accessors when a field is omitted.
const (
	DefaultThrottle = 200 * time.Millisecond
	DefaultCellSize = cluster.DefaultGridCellSize
	DefaultEps      = cluster.DefaultDBSCANEps
	DefaultMinPts   = cluster.DefaultDBSCANMinPts
	DefaultEvent    = "move"
)

// LayerConfig is the file configuration for a clustered marker layer.
// Every field is optional; omitted fields fall back to the defaults above.
type LayerConfig struct {
	Throttle *string  `json:"throttle,omitempty" toml:"throttle"` // duration string like "200ms"
	Strategy *string  `json:"strategy,omitempty" toml:"strategy"` // "grid" or "dbscan"
	CellSize *float64 `json:"cell_size,omitempty" toml:"cell_size"`
	Eps      *float64 `json:"eps,omitempty" toml:"eps"`
	MinPts   *int     `json:"min_pts,omitempty" toml:"min_pts"`
	Event    *string  `json:"event,omitempty" toml:"event"`
	Debug    *bool    `json:"debug,omitempty" toml:"debug"`
}

// EmptyLayerConfig returns a LayerConfig with all fields unset.
func EmptyLayerConfig() *LayerConfig {
	return &LayerConfig{}
}

// LoadLayerConfig loads a LayerConfig from a JSON or TOML file, chosen by
// extension. The file must be at most 1MB.
func LoadLayerConfig(path string) (*LayerConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyLayerConfig()
	if ext == ".toml" {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configured values are usable.
func (c *LayerConfig) Validate() error {
	if c.Throttle != nil && *c.Throttle != "" {
		d, err := time.ParseDuration(*c.Throttle)
		if err != nil {
			return fmt.Errorf("invalid throttle '%s': %w", *c.Throttle, err)
		}
		if d < 0 {
			return fmt.Errorf("throttle must be non-negative, got %s", d)
		}
	}

	if c.Strategy != nil {
		switch *c.Strategy {
		case StrategyGrid, StrategyDBSCAN:
		default:
			return fmt.Errorf("unknown strategy %q (want %q or %q)", *c.Strategy, StrategyGrid, StrategyDBSCAN)
		}
	}

	if c.CellSize != nil && !(*c.CellSize > 0 && !math.IsInf(*c.CellSize, 0)) {
		return fmt.Errorf("cell_size must be positive, got %f", *c.CellSize)
	}

	if c.Eps != nil && !(*c.Eps > 0) {
		return fmt.Errorf("eps must be positive, got %f", *c.Eps)
	}

	if c.MinPts != nil && *c.MinPts < 1 {
		return fmt.Errorf("min_pts must be at least 1, got %d", *c.MinPts)
	}

	if c.Event != nil && *c.Event == "" {
		return fmt.Errorf("event must not be empty")
	}

	return nil
}

// GetThrottle parses and returns the Throttle as a time.Duration.
func (c *LayerConfig) GetThrottle() time.Duration {
	if c.Throttle == nil || *c.Throttle == "" {
		return DefaultThrottle
	}
	d, err := time.ParseDuration(*c.Throttle)
	if err != nil {
		return DefaultThrottle // default on parse error
	}
	return d
}

// GetStrategy returns the strategy name or the default.
func (c *LayerConfig) GetStrategy() string {
	if c.Strategy == nil {
		return StrategyGrid
	}
	return *c.Strategy
}

// GetCellSize returns the cell_size value or the default.
func (c *LayerConfig) GetCellSize() float64 {
	if c.CellSize == nil {
		return DefaultCellSize
	}
	return *c.CellSize
}

// GetEps returns the eps value or the default.
func (c *LayerConfig) GetEps() float64 {
	if c.Eps == nil {
		return DefaultEps
	}
	return *c.Eps
}

// GetMinPts returns the min_pts value or the default.
func (c *LayerConfig) GetMinPts() int {
	if c.MinPts == nil {
		return DefaultMinPts
	}
	return *c.MinPts
}

// GetEvent returns the viewport event name or the default.
func (c *LayerConfig) GetEvent() string {
	if c.Event == nil {
		return DefaultEvent
	}
	return *c.Event
}

// GetDebug returns the debug flag or false.
func (c *LayerConfig) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}
