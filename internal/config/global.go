package config

// Global configuration variables, bound to the root command's persistent flags
var (
	// ConfigPath is the path to the tool configuration file
	ConfigPath = DefaultConfigPath
)
