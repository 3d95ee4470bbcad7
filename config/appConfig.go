package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"shopkeeper/config/values"
	"shopkeeper/internal/client"
	"shopkeeper/internal/local"
	"shopkeeper/internal/store"
	"shopkeeper/pkg/logger"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const DefaultConfigName = "shopkeeper.yaml"

type ClientConfig struct {
	Timeout   time.Duration     `yaml:"timeout"`
	RateLimit float64           `yaml:"rate_limit" validate:"gte=0"`
	Burst     int               `yaml:"burst" validate:"gte=0"`
	UserAgent string            `yaml:"user_agent"`
	Headers   map[string]string `yaml:"headers"`
}

type AppConfig struct {
	Stores      map[string]values.Store `yaml:"stores" validate:"required,dive,keys,required,endkeys"`
	Data        string                  `yaml:"data" validate:"required,file"`
	Templates   values.Templates        `yaml:"templates"`
	Logging     logger.Config           `yaml:"logging"`
	Client      ClientConfig            `yaml:"client"`
	Defaults    local.Defaults          `yaml:"defaults"`
	Snapshot    values.Snapshot         `yaml:"snapshot"`
	MetricsAddr string                  `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// LoadConfig reads the config file, expanding ${VAR} references from the
// environment. Relative data and template paths are taken from the file's directory.
func LoadConfig(filename string) (*AppConfig, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(raw)))))
	decoder.KnownFields(true)
	config := defaultConfig()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filename, err)
	}

	dir := filepath.Dir(filename)
	config.Data = resolve(dir, config.Data)
	config.Templates.Path = resolve(dir, config.Templates.Path)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filename, err)
	}
	return config, nil
}

func defaultConfig() *AppConfig {
	cc := client.DefaultConfig()
	return &AppConfig{
		Logging: *logger.DefaultConfig(),
		Client: ClientConfig{
			Timeout:   cc.Timeout,
			RateLimit: cc.RateLimit,
			Burst:     cc.Burst,
			UserAgent: cc.UserAgent,
		},
		Defaults: local.DefaultDefaults(),
	}
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c ClientConfig) Config() client.Config {
	return client.Config{
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
		Burst:     c.Burst,
		UserAgent: c.UserAgent,
		Headers:   c.Headers,
	}
}

// StoreNames lists the configured stores alphabetically.
func (c *AppConfig) StoreNames() []string {
	names := make([]string, 0, len(c.Stores))
	for name := range c.Stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store builds a fresh store with an empty cache.
func (c *AppConfig) Store(name string) (*store.Store, bool) {
	v, ok := c.Stores[name]
	if !ok {
		return nil, false
	}
	return store.New(name, v.URL, v.APIKey, v.Password, v.Production), true
}
