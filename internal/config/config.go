// Package config handles conversion settings loading and management.
package config

import "github.com/Faultbox/saio/pkg/scene"

// Config holds all conversion settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Import  ImportConfig  `yaml:"import"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds the behavior flags used when writing levels and models.
type ExportConfig struct {
	Optimize                  bool                        `yaml:"optimize"`
	WriteSpecular             bool                        `yaml:"write_specular"`
	FallbackSurfaceAttributes bool                        `yaml:"fallback_surface_attributes"`
	AutoNodeAttributes        scene.AutoNodeAttributeMode `yaml:"auto_node_attributes"`
	EnsurePositiveEulerAngles bool                        `yaml:"ensure_positive_euler_angles"`
	RequireSingleRoot         bool                        `yaml:"require_single_root"`
	DrawDistance              float32                     `yaml:"draw_distance"`
	Author                    string                      `yaml:"author"`
	Description               string                      `yaml:"description"`
}

// ImportConfig holds the behavior flags used when reading levels and models.
type ImportConfig struct {
	Optimize         bool `yaml:"optimize"`
	FlipVertexColors bool `yaml:"flip_vertex_colors"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Optimize:                  true,
			FallbackSurfaceAttributes: true,
			AutoNodeAttributes:        scene.AutoMissing,
			EnsurePositiveEulerAngles: true,
			DrawDistance:              3000,
		},
		Import: ImportConfig{
			Optimize: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
