// Package config handles msbtool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Cache   CacheConfig   `yaml:"cache"`
	Cipher  CipherConfig  `yaml:"cipher"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig controls which files a directory scan picks up.
type ScanConfig struct {
	Extensions []string `yaml:"extensions"`
	SkipHidden bool     `yaml:"skip_hidden"`
}

// CacheConfig holds metadata cache locations.
type CacheConfig struct {
	Output    string `yaml:"output"`     // JSON cache written by metadata-builder
	IndexPath string `yaml:"index_path"` // bbolt parse index, empty disables it
}

// CipherConfig holds the cipher parameters used when re-encrypting payloads.
type CipherConfig struct {
	Version uint32 `yaml:"version"`
	IV      uint32 `yaml:"iv"`
	BlockIV uint32 `yaml:"block_iv"`
}

// ExportConfig holds pcap export fallbacks for captures without endpoints.
type ExportConfig struct {
	LocalAddr  string `yaml:"local_addr"`
	RemoteAddr string `yaml:"remote_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{".msb", ".msb.zst"},
			SkipHidden: true,
		},
		Cache: CacheConfig{
			Output: "metadata-cache.json",
		},
		Cipher: CipherConfig{
			Version: 95,
		},
		Export: ExportConfig{
			LocalAddr:  "127.0.0.1",
			RemoteAddr: "127.0.0.1",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
