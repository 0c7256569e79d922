package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// WebAPIConfiguration describes the web API configuration. This structure is automatically parsed by
// loadConfiguration and values from flags, environment variables or the configuration file will be loaded.
type WebAPIConfiguration struct {
	Config struct {
		Path string `conf:"default:/conf/config.yml"`
	}
	Web struct {
		APIHost         string        `conf:"default:0.0.0.0:3000" yaml:"apihost"`
		ReadTimeout     time.Duration `conf:"default:5s" yaml:"readtimeout"`
		WriteTimeout    time.Duration `conf:"default:5s" yaml:"writetimeout"`
		ShutdownTimeout time.Duration `conf:"default:5s" yaml:"shutdowntimeout"`
		AllowedOrigins  []string      `conf:"default:*" yaml:"allowedorigins"`
	} `yaml:"web"`
	Debug bool `yaml:"debug"`
	DB    struct {
		Filename string `conf:"default:/tmp/vernissage.db" yaml:"filename"`
	} `yaml:"db"`
	Images struct {
		Path string `conf:"default:/tmp/vernissage-images" yaml:"path"`
	} `yaml:"images"`
	Auth struct {
		// bcrypt cost factor
		Cost int `conf:"default:10" yaml:"cost"`
	} `yaml:"auth"`
}

// loadConfiguration creates a WebAPIConfiguration starting from flags, environment variables and the configuration
// file. Variables found in a `.env` file, when present, are exported before parsing.
// The configuration file values take precedence over the others.
func loadConfiguration(args []string) (WebAPIConfiguration, error) {
	var cfg WebAPIConfiguration

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("can't load the .env file: %w", err)
	}

	// Try to load configuration from environment variables and command line switches
	if err := conf.Parse(args, "CFG", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("CFG", &cfg)
			if err != nil {
				return cfg, fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage) //nolint:forbidigo
			return cfg, conf.ErrHelpWanted
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Override values from YAML if specified and if it exists (useful in k8s/compose)
	fp, err := os.Open(cfg.Config.Path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("can't read the config file, while it exists: %w", err)
	} else if err == nil {
		defer fp.Close()
		yamlFile, err := io.ReadAll(fp)
		if err != nil {
			return cfg, fmt.Errorf("can't read config file: %w", err)
		}
		if err = yaml.Unmarshal(yamlFile, &cfg); err != nil {
			return cfg, fmt.Errorf("can't unmarshal config file: %w", err)
		}
	}

	return cfg, nil
}
