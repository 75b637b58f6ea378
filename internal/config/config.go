package config

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/willie68/go_heightmap/internal/logging"
	"github.com/willie68/go_heightmap/internal/shttp"
	"github.com/willie68/go_heightmap/internal/tiles"
	"github.com/willie68/go_heightmap/internal/utils/measurement"
	"github.com/willie68/go_heightmap/pkg/extstrgutils"
	"go.yaml.in/yaml/v3"
)

type Config struct {
	Server     shttp.Config       `yaml:"server"`
	Heightmaps tiles.ConfigMap    `yaml:"heightmaps"`
	Logging    logging.Config     `yaml:"logging"`
	Metrics    measurement.Config `yaml:"metrics"`
}

// Option changes the loaded config, e.g. with values from the command line
type Option func(c *Config)

var (
	config Config
)

func Get() *Config {
	return &config
}

func Logging() *logging.Config {
	return &config.Logging
}

func Heightmaps() tiles.ConfigMap {
	return config.Heightmaps
}

func Port() int {
	return config.Server.Port
}

// WithPort overwrites the port, 0 keeps the configured one
func WithPort(p int) Option {
	return func(c *Config) {
		if p > 0 {
			c.Server.Port = p
		}
	}
}

// WithHeightmaps keeps only the named heightmaps, names are separated by
// comma, semicolon or space. An empty list keeps all.
func WithHeightmaps(names string) Option {
	return func(c *Config) {
		set := extstrgutils.MultiValueSet(names)
		if set == nil {
			return
		}
		for name := range c.Heightmaps {
			if _, ok := set[name]; !ok {
				delete(c.Heightmaps, name)
			}
		}
	}
}

func SetParameter(opts ...Option) {
	for _, opt := range opts {
		opt(&config)
	}
}

// YAML renders the active config, empty on error
func YAML() string {
	ys, err := config.YAML()
	if err != nil {
		return ""
	}
	return ys
}

// Load loads the config
func Load(file string) error {
	_, err := os.Stat(file)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("can't load config file: %s", err.Error())
	}
	return Parse(data)
}

// Parse replaces the config with the yaml data
func Parse(data []byte) error {
	var c Config
	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return fmt.Errorf("can't unmarshal config file: %s", err.Error())
	}
	if c.Heightmaps == nil {
		c.Heightmaps = make(tiles.ConfigMap)
	}
	config = c
	return nil
}

func Init(inj do.Injector) {
	do.ProvideValue(inj, &config)
	do.ProvideValue(inj, &config.Logging)
	do.ProvideValue(inj, &config.Server)
	do.ProvideValue(inj, config.Heightmaps)

	do.ProvideValue(inj, measurement.New(config.Metrics.Active))

	ver := NewVersion()
	do.ProvideValue(inj, *ver)
}

func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("can't marshal config to yaml: %s", err.Error())
	}
	return string(data), nil
}
