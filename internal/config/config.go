package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/siteselect/internal/cache"
)

// Config holds the full application configuration.
type Config struct {
	RefData   RefDataConfig     `yaml:"refdata" mapstructure:"refdata"`
	Isochrone IsochroneConfig   `yaml:"isochrone" mapstructure:"isochrone"`
	Cache     cache.TiersConfig `yaml:"cache" mapstructure:"cache"`
	Ranking   RankingConfig     `yaml:"ranking" mapstructure:"ranking"`
	Cluster   ClusterConfig     `yaml:"cluster" mapstructure:"cluster"`
	Server    ServerConfig      `yaml:"server" mapstructure:"server"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
}

// RefDataConfig configures the reference-data source.
type RefDataConfig struct {
	// Driver is "postgres" or "memory".
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	// Local dataset paths, used by the memory driver and the import command.
	AreasCSV  string `yaml:"areas_csv" mapstructure:"areas_csv"`
	AreasXLSX string `yaml:"areas_xlsx" mapstructure:"areas_xlsx"`
	POIsCSV   string `yaml:"pois_csv" mapstructure:"pois_csv"`
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
	// ShapefileNameField is the attribute holding the area name.
	ShapefileNameField string `yaml:"shapefile_name_field" mapstructure:"shapefile_name_field"`
	// CatalogOverride optionally points at a YAML weights/examples override.
	CatalogOverride string `yaml:"catalog_override" mapstructure:"catalog_override"`
}

// IsochroneConfig configures the reachability provider client.
type IsochroneConfig struct {
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Token      string        `yaml:"token" mapstructure:"token"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RatePerSec float64       `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst  int           `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// RankingConfig tunes the recommendation pipeline.
type RankingConfig struct {
	TopAreas           int     `yaml:"top_areas" mapstructure:"top_areas"`
	TopRecommendations int     `yaml:"top_recommendations" mapstructure:"top_recommendations"`
	Parallelism        int     `yaml:"parallelism" mapstructure:"parallelism"`
	DefaultRadiusKM    float64 `yaml:"default_radius_km" mapstructure:"default_radius_km"`
}

// ClusterConfig holds default DBSCAN parameters.
type ClusterConfig struct {
	EpsKM      float64 `yaml:"eps_km" mapstructure:"eps_km"`
	MinSamples int     `yaml:"min_samples" mapstructure:"min_samples"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SITESELECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("refdata.driver", "memory")
	v.SetDefault("refdata.areas_csv", "data/area_scores.csv")
	v.SetDefault("refdata.pois_csv", "data/pois.csv")
	v.SetDefault("refdata.shapefile_name_field", "name")
	v.SetDefault("isochrone.base_url", "https://apihub.latlong.ai/v4")
	v.SetDefault("isochrone.timeout", "10s")
	v.SetDefault("isochrone.rate_per_sec", 2.0)
	v.SetDefault("isochrone.rate_burst", 1)
	v.SetDefault("cache.viewport.max_entries", 256)
	v.SetDefault("cache.viewport.ttl", "30s")
	v.SetDefault("cache.search.max_entries", 512)
	v.SetDefault("cache.search.ttl", "5m")
	v.SetDefault("cache.reference.max_entries", 64)
	v.SetDefault("cache.reference.ttl", "1h")
	v.SetDefault("cache.provider.max_entries", 512)
	v.SetDefault("cache.provider.ttl", "10m")
	v.SetDefault("ranking.top_areas", 10)
	v.SetDefault("ranking.top_recommendations", 3)
	v.SetDefault("ranking.parallelism", 4)
	v.SetDefault("ranking.default_radius_km", 1.0)
	v.SetDefault("cluster.eps_km", 0.5)
	v.SetDefault("cluster.min_samples", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
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

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the configuration for a given run mode. Modes: "serve",
// "import", "analyze".
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "serve", "analyze":
		if c.RefData.Driver == "postgres" && c.RefData.DatabaseURL == "" {
			missing = append(missing, "refdata.database_url is required for the postgres driver")
		}
		if c.RefData.Driver == "memory" && c.RefData.AreasCSV == "" && c.RefData.AreasXLSX == "" {
			missing = append(missing, "refdata.areas_csv or refdata.areas_xlsx is required for the memory driver")
		}
	case "import":
		if c.RefData.DatabaseURL == "" {
			missing = append(missing, "refdata.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "serve" && c.Server.Port <= 0 {
		missing = append(missing, "server.port must be > 0")
	}
	if c.Ranking.Parallelism < 1 || c.Ranking.Parallelism > 32 {
		missing = append(missing, "ranking.parallelism must be between 1 and 32")
	}
	if c.Ranking.DefaultRadiusKM <= 0 || c.Ranking.DefaultRadiusKM > 50 {
		missing = append(missing, "ranking.default_radius_km must be in (0, 50]")
	}
	if c.Cluster.EpsKM <= 0 {
		missing = append(missing, "cluster.eps_km must be > 0")
	}
	if c.Cluster.MinSamples < 1 {
		missing = append(missing, "cluster.min_samples must be >= 1")
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}
