package config

// Config represents the complete codescope configuration.
// It can be loaded from .codescope/config.yml with environment variable
// overrides.
type Config struct {
	Languages []string       `yaml:"languages" mapstructure:"languages"`
	Paths     PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Output    OutputConfig   `yaml:"output" mapstructure:"output"`
	Database  DatabaseConfig `yaml:"database" mapstructure:"database"`
	Analysis  AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns to analyze
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// OutputConfig defines how the canonical document is written.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "json" or "yaml"
	Path   string `yaml:"path" mapstructure:"path"`     // output file, "-" for stdout
}

// DatabaseConfig defines optional run persistence.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite file, empty disables persistence
}

// AnalysisConfig tunes the analysis pipeline.
type AnalysisConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // 0 means GOMAXPROCS
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Languages: nil, // all supported languages
		Paths: PathsConfig{
			Include: nil, // every file with a supported extension
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
				"*.pyc",
			},
		},
		Output: OutputConfig{
			Format: "json",
			Path:   "-",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Analysis: AnalysisConfig{
			Workers: 0,
		},
	}
}
