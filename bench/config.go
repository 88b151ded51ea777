package bench

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/pflag"
)

const (
	defaultDegree     = 100
	defaultOperations = 10000
	defaultWarmup     = 1000
	defaultKeyRange   = 1000000

	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// Config is the bench configuration.
type Config struct {
	configFile string

	Log log.Config `toml:"log" json:"log"`

	Degree      int    `toml:"degree" json:"degree"`
	Operations  int    `toml:"operations" json:"operations"`
	Warmup      int    `toml:"warmup" json:"warmup"`
	KeyRange    int    `toml:"key-range" json:"key-range"`
	Seed        int64  `toml:"seed" json:"seed"`
	Chart       string `toml:"chart" json:"chart"`
	MetricsAddr string `toml:"metrics-addr" json:"metrics-addr"`
	Baseline    bool   `toml:"baseline" json:"baseline"`
	Verify      bool   `toml:"verify" json:"verify"`
}

// NewConfig returns a configuration filled with defaults.
func NewConfig() *Config {
	return &Config{
		Log:        log.Config{Level: defaultLogLevel, Format: defaultLogFormat},
		Degree:     defaultDegree,
		Operations: defaultOperations,
		Warmup:     defaultWarmup,
		KeyRange:   defaultKeyRange,
		Verify:     true,
	}
}

// RegisterFlags binds every option to fs.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "config file")
	fs.IntVar(&c.Degree, "degree", c.Degree, "minimum degree of the tree")
	fs.IntVar(&c.Operations, "operations", c.Operations, "number of keys inserted, searched and deleted")
	fs.IntVar(&c.Warmup, "warmup", c.Warmup, "number of untimed inserts before measuring")
	fs.IntVar(&c.KeyRange, "key-range", c.KeyRange, "keys are drawn uniformly from [1, key-range]")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one from the clock")
	fs.StringVar(&c.Chart, "chart", c.Chart, "write an HTML chart of cumulative timings to this file")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "serve prometheus metrics on this address while running")
	fs.BoolVar(&c.Baseline, "baseline", c.Baseline, "also measure github.com/google/btree with the same degree")
	fs.BoolVar(&c.Verify, "verify", c.Verify, "check the tree invariants after every phase")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format, one of text or json")
}

// Load applies the config file, if one was given, and lets flags set on the command
// line override it. fs must be the flag set passed to RegisterFlags, already parsed.
func (c *Config) Load(fs *pflag.FlagSet) error {
	if c.configFile != "" {
		// Flag values point into c, so remember what the command line said before the
		// file overwrites it.
		changed := make(map[string]string)
		fs.Visit(func(f *pflag.Flag) {
			changed[f.Name] = f.Value.String()
		})
		meta, err := toml.DecodeFile(c.configFile, c)
		if err != nil {
			return errors.Annotatef(err, "load config file %s", c.configFile)
		}
		if undecoded := meta.Undecoded(); len(undecoded) != 0 {
			return errors.Errorf("config contains undefined item: %s", undecoded[0].String())
		}
		for name, value := range changed {
			if err := fs.Set(name, value); err != nil {
				return errors.WithStack(err)
			}
		}
	}
	c.Adjust()
	return c.Validate()
}

// Adjust fills options left empty by a config file.
func (c *Config) Adjust() {
	if len(c.Log.Level) == 0 {
		c.Log.Level = defaultLogLevel
	}
	if len(c.Log.Format) == 0 {
		c.Log.Format = defaultLogFormat
	}
}

// Validate rejects settings the bench cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Degree < 2:
		return errors.Errorf("degree must be at least 2, got %d", c.Degree)
	case c.Operations < 0:
		return errors.Errorf("operations must not be negative, got %d", c.Operations)
	case c.Warmup < 0:
		return errors.Errorf("warmup must not be negative, got %d", c.Warmup)
	case c.KeyRange < 1:
		return errors.Errorf("key-range must be positive, got %d", c.KeyRange)
	}
	return nil
}
