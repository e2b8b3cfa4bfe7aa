package config

import "github.com/spf13/pflag"

// Flag names shared by every command.
const (
	FlagConfig   = "config"
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
	FlagDebug    = "debug"
)

// Flag names bound by individual commands. They override the matching
// config field when present on the flag set and set by the user.
const (
	FlagOut     = "out"
	FlagIndex   = "index"
	FlagVersion = "version"
	FlagIV      = "iv"
	FlagBlockIV = "block-iv"
)

// BindFlags registers the global flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to config file")
	fs.String(FlagLogLevel, "", "log level (debug, info, warn, error)")
	fs.String(FlagLogFile, "", "also write logs to this file")
	fs.Bool(FlagDebug, false, "shorthand for --log-level debug")
}

// ConfigPath returns the explicit config path if provided via --config.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil {
		return ""
	}
	path, _ := fs.GetString(FlagConfig)
	return path
}

// applyFlags applies flag overrides to the config.
func applyFlags(cfg *Config, fs *pflag.FlagSet) {
	if fs == nil {
		return
	}

	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	if changed(FlagLogLevel) {
		cfg.Logging.Level, _ = fs.GetString(FlagLogLevel)
	}
	if debug, _ := fs.GetBool(FlagDebug); changed(FlagDebug) && debug {
		cfg.Logging.Level = "debug"
	}
	if changed(FlagLogFile) {
		cfg.Logging.LogFile, _ = fs.GetString(FlagLogFile)
	}
	if changed(FlagOut) {
		cfg.Cache.Output, _ = fs.GetString(FlagOut)
	}
	if changed(FlagIndex) {
		cfg.Cache.IndexPath, _ = fs.GetString(FlagIndex)
	}
	if changed(FlagVersion) {
		cfg.Cipher.Version, _ = fs.GetUint32(FlagVersion)
	}
	if changed(FlagIV) {
		cfg.Cipher.IV, _ = fs.GetUint32(FlagIV)
	}
	if changed(FlagBlockIV) {
		cfg.Cipher.BlockIV, _ = fs.GetUint32(FlagBlockIV)
	}
}
