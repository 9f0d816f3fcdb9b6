package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the layout of the optional YAML configuration file
type FileConfig struct {
	Stego    StegoConfig  `yaml:"stego"`
	Server   ServerConfig `yaml:"server"`
	LogLevel string       `yaml:"log_level"`
}

// Default returns a configuration with every value set to its default
func Default() *FileConfig {
	conf := &FileConfig{}
	conf.PopulateUnsetConfigVars()
	return conf
}

func (c *FileConfig) PopulateUnsetConfigVars() {
	c.Stego.PopulateUnsetConfigVars()
	c.Server.PopulateUnsetConfigVars()
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// LoadFile reads a YAML configuration file. Values missing from the file are set to their defaults.
func LoadFile(filename string) (*FileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var conf FileConfig
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, err
	}
	conf.PopulateUnsetConfigVars()
	return &conf, nil
}

func SaveFile(filename string, c *FileConfig) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
