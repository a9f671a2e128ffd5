// Package config handles spritemesh configuration loading and management.
package config

import (
	"github.com/Faultbox/spritemesh/internal/build"
	"github.com/Faultbox/spritemesh/internal/logger"
)

// Config holds all tool settings.
type Config struct {
	Build   build.Config  `yaml:"build" toml:"build"`
	Source  SourceConfig  `yaml:"source" toml:"source"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Batch   BatchConfig   `yaml:"batch" toml:"batch"`
	Logging logger.Config `yaml:"logging" toml:"logging"`
}

// SourceConfig holds image loading settings.
type SourceConfig struct {
	// MagentaKey treats pure magenta (255,0,255) as transparent.
	MagentaKey bool `yaml:"magenta_key" toml:"magenta_key"`
	// Frame picks the frame of .spr sprite sheets.
	Frame int `yaml:"frame" toml:"frame"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Format    string `yaml:"format" toml:"format"` // glb, gltf or obj
	Dir       string `yaml:"dir" toml:"dir"`
	Colliders bool   `yaml:"colliders" toml:"colliders"` // export collider wireframes
}

// BatchConfig holds batch and watch settings.
type BatchConfig struct {
	Workers int    `yaml:"workers" toml:"workers"`
	Pattern string `yaml:"pattern" toml:"pattern"` // glob matched against file names
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Build: build.Default(),
		Output: OutputConfig{
			Format:    "glb",
			Dir:       ".",
			Colliders: true,
		},
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "*.png",
		},
		Logging: logger.Config{
			Level: "info",
		},
	}
}
