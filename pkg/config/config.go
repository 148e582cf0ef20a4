// Package config loads netgrid settings from a TOML file.
//
// A config file has one table per concern. Every key is optional; missing
// keys keep the compiler defaults.
//
//	[router]
//	utilization_cap = 0.5
//	eviction_penalty = 2.0
//	widen_divisor = 10
//
//	[layout]
//	padding = 0
//	lead_out = 1
//	workers = 4
//
//	[output]
//	formats = ["txt", "mts"]
//	color = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//
// Command-line flags override file values; see [Config.Apply].
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/pipeline"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// DefaultAddr is the listen address of the compile server.
const DefaultAddr = ":8080"

// Config is the decoded config file.
type Config struct {
	Router Router       `toml:"router"`
	Layout Layout       `toml:"layout"`
	Output Output       `toml:"output"`
	Cache  cache.Config `toml:"cache"`
	Server Server       `toml:"server"`
}

// Router tunes the channel router.
type Router struct {
	UtilizationCap  float64 `toml:"utilization_cap"`
	EvictionPenalty float64 `toml:"eviction_penalty"`
	WidenDivisor    int     `toml:"widen_divisor"`
}

// Layout tunes drawing and concurrency.
type Layout struct {
	Padding   int `toml:"padding"`
	LeadOut   int `toml:"lead_out"`
	Workers   int `toml:"workers"`
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
}

// Output selects the default artifacts.
type Output struct {
	Formats      []string `toml:"formats"`
	Color        bool     `toml:"color"`
	HideForwards bool     `toml:"hide_forwards"`
}

// Server configures the compile server.
type Server struct {
	Addr        string `toml:"addr"`
	MaxBodySize int64  `toml:"max_body_size"`
}

// Parse decodes a TOML document. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q", undecoded[0].String())
	}
	c.SetDefaults()
	return c, nil
}

// Load reads the config file at path. An empty path loads the default file
// if it exists and returns the defaults otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Default returns the config used when no file exists.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields that have no pipeline default.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxBodySize <= 0 {
		c.Server.MaxBodySize = 8 << 20
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/netgrid/config.toml, falling back to
// the OS user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netgrid", FileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "netgrid", FileName), nil
}

// Apply copies file values into opts wherever opts still holds its zero
// value, so flags set on the command line win.
func (c Config) Apply(opts *pipeline.Options) {
	setFloat(&opts.UtilizationCap, c.Router.UtilizationCap)
	setFloat(&opts.EvictionPenalty, c.Router.EvictionPenalty)
	setInt(&opts.WidenDivisor, c.Router.WidenDivisor)
	setInt(&opts.Padding, c.Layout.Padding)
	setInt(&opts.LeadOut, c.Layout.LeadOut)
	setInt(&opts.Workers, c.Layout.Workers)
	setInt(&opts.MaxWidth, c.Layout.MaxWidth)
	setInt(&opts.MaxHeight, c.Layout.MaxHeight)
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), c.Output.Formats...)
	}
	opts.Color = opts.Color || c.Output.Color
	opts.HideForwards = opts.HideForwards || c.Output.HideForwards
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}
