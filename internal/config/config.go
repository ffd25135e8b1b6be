package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Store    StoreConfig    `yaml:"store" json:"store"`
	Writes   WritesConfig   `yaml:"writes" json:"writes"`
	Contacts ContactsConfig `yaml:"contacts" json:"contacts"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StoreConfig struct {
	// Driver selects the document store backend: "file", "sqlite" or
	// "memory".
	Driver     string `yaml:"driver" json:"driver"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
}

type WritesConfig struct {
	// TimeoutMS bounds every remote write; a hung write surfaces as a
	// failure instead of an indefinite pending state.
	TimeoutMS int `yaml:"timeout_ms" json:"timeout_ms"`
}

type ContactsConfig struct {
	// Palette is the fixed avatar color cycle used at contact creation.
	Palette []string `yaml:"palette" json:"palette"`
}

var defaultPalette = []string{
	"#FF7A00", "#9327FF", "#6E52FF", "#FC71FF", "#FFBB2B",
	"#1FD7C1", "#462F8A", "#FF4646", "#00BEE8", "#0038FF",
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "file"
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = "data"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/join.db"
	}
	if c.Writes.TimeoutMS <= 0 {
		c.Writes.TimeoutMS = 5000
	}
	if len(c.Contacts.Palette) == 0 {
		c.Contacts.Palette = append([]string{}, defaultPalette...)
	}
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Writes.TimeoutMS) * time.Millisecond
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// Default returns a config with all defaults applied, for entry points that
// run without a config file.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}
