package chatrelay

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacity         = 5
	DefaultBufferSize       = 64
	DefaultBacklog          = 5
	DefaultSocketBufferSize = 8192
)

type Global struct {
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

type RelayConfig struct {
	Address          string `yaml:"address" toml:"address"`
	Port             int    `yaml:"port" toml:"port"`
	Backlog          int    `yaml:"backlog" toml:"backlog"`
	Capacity         int    `yaml:"capacity" toml:"capacity"`
	BufferSize       int    `yaml:"buffer_size" toml:"buffer_size"`
	SocketBufferSize int    `yaml:"socket_buffer_size" toml:"socket_buffer_size"`
	LockOsThread     bool   `yaml:"lock_os_thread" toml:"lock_os_thread"`
}

type MetricsConfig struct {
	Address string `yaml:"address" toml:"address"`
}

type Config struct {
	Global  Global        `yaml:"global" toml:"global"`
	Relay   RelayConfig   `yaml:"relay" toml:"relay"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
}

// DefaultConfig is used when no config file is given on the command line.
func DefaultConfig() *Config {
	config := &Config{
		Global: Global{LogLevel: "info"},
		Relay:  RelayConfig{Address: "0.0.0.0", LockOsThread: true},
	}
	config.Relay.applyDefaults()
	return config
}

func LoadConfig(filePath string) (*Config, error) {
	file, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	config := &Config{}
	switch {
	case strings.HasSuffix(filePath, ".toml"):
		err = toml.Unmarshal(file, config)
	case strings.HasSuffix(filePath, ".yaml"), strings.HasSuffix(filePath, ".yml"):
		err = yaml.Unmarshal(file, config)
	default:
		return nil, errUnknownConfigFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filePath, err)
	}
	config.Relay.applyDefaults()
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	return config.Relay.validate()
}

func (c *RelayConfig) applyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.Backlog == 0 {
		c.Backlog = DefaultBacklog
	}
	if c.SocketBufferSize == 0 {
		c.SocketBufferSize = DefaultSocketBufferSize
	}
}

func (c *RelayConfig) validate() error {
	if c.Capacity < 1 {
		return errInvalidCapacity
	}
	if c.BufferSize < 2 {
		return errInvalidBufferSize
	}
	if c.Port < 0 || c.Port > 65535 {
		return errInvalidPort
	}
	return nil
}
