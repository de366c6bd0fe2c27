// Package config reads the server configuration from an ini file and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/ini.v1"
)

const DefaultPath = "engelsystem.ini"

// MySQL: collation should be utf8mb4_unicode_ci
const DefaultDB = "sqlite3:engelsystem.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL&_foreign_keys=on&cache=shared"

type Config struct {
	DB          string        `ini:"db"`
	Listen      string        `ini:"listen"`
	Base        string        `ini:"base"` // URL prefix, normalized to "" or "/foo"
	KeyLifetime time.Duration `ini:"key_lifetime"`
	LogLevel    string        `ini:"log_level"`
	LogFormat   string        `ini:"log_format"`
	CORSOrigins []string      `ini:"cors_origins" delim:","`
}

func Default() *Config {
	return &Config{
		DB:          DefaultDB,
		Listen:      "127.0.0.1:8080",
		KeyLifetime: 720 * time.Hour,
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

// Flags are the command line flags which override the config file.
type Flags struct {
	set    *pflag.FlagSet
	path   string
	values Config
}

// AddFlags registers the config flags in the given FlagSet.
func AddFlags(set *pflag.FlagSet) *Flags {
	var f = &Flags{set: set}
	var def = Default()
	set.StringVar(&f.path, "config", DefaultPath, "read configuration from this ini `file`")
	set.StringVar(&f.values.DB, "db", def.DB, "sql database url, see github.com/xo/dburl")
	set.StringVar(&f.values.Listen, "listen", def.Listen, "serve HTTP content at this `ip:port`")
	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	set.StringVar(&f.values.Base, "base", def.Base, "strip off this `prefix` from every HTTP request and prepend it to every link")
	set.DurationVar(&f.values.KeyLifetime, "key-lifetime", def.KeyLifetime, "session keys expire after this `duration`, 0 means never")
	set.StringVar(&f.values.LogLevel, "log-level", def.LogLevel, "debug, info, warn or error")
	set.StringVar(&f.values.LogFormat, "log-format", def.LogFormat, "json or console")
	set.StringSliceVar(&f.values.CORSOrigins, "cors-origins", def.CORSOrigins, "allow these `origins` to access the JSON API")
	return f
}

// Load reads the config file and applies the flags which have been set explicitly.
// A missing config file is ignored unless --config has been given.
func (f *Flags) Load() (*Config, error) {

	var cfg = Default()

	if _, err := os.Stat(f.path); errors.Is(err, fs.ErrNotExist) && !f.set.Changed("config") {
		// no config file
	} else if err := LoadFile(cfg, f.path); err != nil {
		return nil, err
	}

	if f.set.Changed("db") {
		cfg.DB = f.values.DB
	}
	if f.set.Changed("listen") {
		cfg.Listen = f.values.Listen
	}
	if f.set.Changed("base") {
		cfg.Base = f.values.Base
	}
	if f.set.Changed("key-lifetime") {
		cfg.KeyLifetime = f.values.KeyLifetime
	}
	if f.set.Changed("log-level") {
		cfg.LogLevel = f.values.LogLevel
	}
	if f.set.Changed("log-format") {
		cfg.LogFormat = f.values.LogFormat
	}
	if f.set.Changed("cors-origins") {
		cfg.CORSOrigins = f.values.CORSOrigins
	}

	cfg.normalize()
	return cfg, nil
}

// LoadFile maps the keys of the default section of an ini file onto cfg. Missing keys keep their values.
func LoadFile(cfg *Config, path string) error {
	file, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := file.Section("").StrictMapTo(cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) normalize() {

	cfg.Base = strings.Trim(cfg.Base, "/")
	if cfg.Base != "" {
		cfg.Base = "/" + cfg.Base
	}

	var origins = cfg.CORSOrigins[:0]
	for _, o := range cfg.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	cfg.CORSOrigins = origins

	if cfg.KeyLifetime < 0 {
		cfg.KeyLifetime = 0
	}
}
