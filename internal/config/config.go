package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data" mapstructure:"data"`
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Index   IndexConfig   `yaml:"index" mapstructure:"index"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	TUI     TUIConfig     `yaml:"tui" mapstructure:"tui"`
	Tiger   TigerConfig   `yaml:"tiger" mapstructure:"tiger"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the tract geometry and observed-burden sources.
type DataConfig struct {
	Tracts TractSourceConfig  `yaml:"tracts" mapstructure:"tracts"`
	Burden BurdenSourceConfig `yaml:"burden" mapstructure:"burden"`
}

// TractSourceConfig configures where tract polygons are loaded from.
// Kind is one of "geojson", "shapefile" or "postgis"; empty infers from Path.
type TractSourceConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind"`
	Path        string `yaml:"path" mapstructure:"path"`
	IDField     string `yaml:"id_field" mapstructure:"id_field"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
	GeomColumn  string `yaml:"geom_column" mapstructure:"geom_column"`
}

// BurdenSourceConfig configures where observed burden percentages are loaded from.
// Kind is one of "csv", "xlsx", "sqlite" or "postgres"; empty infers from Path.
type BurdenSourceConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind"`
	Path        string `yaml:"path" mapstructure:"path"`
	Sheet       string `yaml:"sheet" mapstructure:"sheet"`
	IDColumn    string `yaml:"id_column" mapstructure:"id_column"`
	ValueColumn string `yaml:"value_column" mapstructure:"value_column"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// ModelConfig configures the regression predictor.
type ModelConfig struct {
	CoefficientsPath string `yaml:"coefficients_path" mapstructure:"coefficients_path"`
}

// IndexConfig selects the tract index implementation ("scan" or "rtree").
type IndexConfig struct {
	Kind string `yaml:"kind" mapstructure:"kind"`
}

// GeocodeConfig configures forward and reverse geocoding.
type GeocodeConfig struct {
	Providers       []string  `yaml:"providers" mapstructure:"providers"`
	NominatimURL    string    `yaml:"nominatim_url" mapstructure:"nominatim_url"`
	Email           string    `yaml:"email" mapstructure:"email"`
	UserAgent       string    `yaml:"user_agent" mapstructure:"user_agent"`
	RateLimit       float64   `yaml:"rate_limit" mapstructure:"rate_limit"`
	TimeoutSecs     int       `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	BBox            []float64 `yaml:"bbox" mapstructure:"bbox"` // west, south, east, north
	ReverseCacheTTL int       `yaml:"reverse_cache_ttl_secs" mapstructure:"reverse_cache_ttl_secs"`
	ReverseCacheMax int       `yaml:"reverse_cache_max" mapstructure:"reverse_cache_max"`
}

// MapConfig holds the initial and focused map view.
type MapConfig struct {
	CenterLat float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom      float64 `yaml:"zoom" mapstructure:"zoom"`
	FocusZoom float64 `yaml:"focus_zoom" mapstructure:"focus_zoom"`
}

// TUIConfig configures the interactive session.
type TUIConfig struct {
	DebounceMillis int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
	SuggestLimit   int `yaml:"suggest_limit" mapstructure:"suggest_limit"`
}

// TigerConfig configures TIGER/Line tract downloads.
type TigerConfig struct {
	Year    int    `yaml:"year" mapstructure:"year"`
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// MetricsConfig configures the optional Prometheus textfile dump.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// TUIFile receives logs while the explore session holds the terminal.
	TUIFile string `yaml:"tui_file" mapstructure:"tui_file"`
}

// PhiladelphiaBBox is the default geocoding bounding region (west, south, east, north).
var PhiladelphiaBBox = []float64{-75.2803, 39.8670, -74.9558, 40.1379}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BURDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.tracts.path", "data/tracts.geojson")
	v.SetDefault("data.tracts.id_field", "GEOID")
	v.SetDefault("data.tracts.geom_column", "geom")
	v.SetDefault("data.burden.path", "data/burden_lookup_clean.csv")
	v.SetDefault("data.burden.id_column", "GEOID")
	v.SetDefault("data.burden.value_column", "burden_pct")
	v.SetDefault("model.coefficients_path", "")
	v.SetDefault("index.kind", "scan")
	v.SetDefault("geocode.providers", []string{"nominatim", "census"})
	v.SetDefault("geocode.nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "burden-map/1.0")
	v.SetDefault("geocode.rate_limit", 1.0)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("geocode.bbox", PhiladelphiaBBox)
	v.SetDefault("geocode.reverse_cache_ttl_secs", 3600)
	v.SetDefault("geocode.reverse_cache_max", 1024)
	v.SetDefault("map.center_lat", 39.99)
	v.SetDefault("map.center_lon", -75.12)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("map.focus_zoom", 13)
	v.SetDefault("tui.debounce_ms", 300)
	v.SetDefault("tui.suggest_limit", 5)
	v.SetDefault("tiger.year", 2024)
	v.SetDefault("tiger.temp_dir", "/tmp/tiger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.tui_file", "burden-map-explore.log")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	if len(c.Geocode.BBox) != 0 && len(c.Geocode.BBox) != 4 {
		return eris.Errorf("config: geocode.bbox needs 4 values (west, south, east, north), got %d", len(c.Geocode.BBox))
	}
	switch c.Index.Kind {
	case "", "scan", "rtree":
	default:
		return eris.Errorf("config: unknown index.kind %q", c.Index.Kind)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	return initLogger(cfg, nil)
}

// InitFileLogger replaces the global logger with one that writes only to
// path, for commands that own the terminal. An empty path discards logs.
func InitFileLogger(cfg LogConfig, path string) error {
	if path == "" {
		zap.ReplaceGlobals(zap.NewNop())
		return nil
	}
	return initLogger(cfg, []string{path})
}

func initLogger(cfg LogConfig, outputs []string) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)
	if outputs != nil {
		zapCfg.OutputPaths = outputs
		zapCfg.ErrorOutputPaths = outputs
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
