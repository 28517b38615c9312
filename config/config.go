package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Listen         string   `yaml:"listen"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Providers struct {
		Jikan struct {
			BaseURL string `yaml:"base_url"`
		} `yaml:"jikan"`
		IMDB struct {
			BaseURL string `yaml:"base_url"`
			Token   string `yaml:"token"`
		} `yaml:"imdb"`
		TMDB struct {
			BaseURL string `yaml:"base_url"`
			APIKey  string `yaml:"api_key"`
		} `yaml:"tmdb"`
		AnimeFLV struct {
			BaseURL   string `yaml:"base_url"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"animeflv"`
	} `yaml:"providers"`

	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// Load reads config from path if it exists, then applies environment
// overrides. A missing file is not an error so the service can run on
// defaults plus env vars alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

// CacheTTL returns the cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func setDefaults(cfg *Config) {
	cfg.Server.Listen = ":5000"

	cfg.Providers.Jikan.BaseURL = "https://api.jikan.moe/v4"
	cfg.Providers.IMDB.BaseURL = "https://rest.imdbapi.dev/v2"
	cfg.Providers.TMDB.BaseURL = "https://api.themoviedb.org/3"
	cfg.Providers.AnimeFLV.BaseURL = "https://www3.animeflv.net"

	cfg.Cache.TTLSeconds = 3600

	cfg.RateLimit.PerMinute = 120
	cfg.RateLimit.Burst = 30
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv("IMDB_API_READ_ACCESS_TOKEN"); v != "" {
		cfg.Providers.IMDB.Token = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.Providers.TMDB.APIKey = v
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.TTLSeconds = n
		}
	}
}
