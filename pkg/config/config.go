// Package config binds command line flags, environment variables and an
// optional config file into the locator settings.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vietanhduong/debugfind/pkg/contentindex"
	"github.com/vietanhduong/debugfind/pkg/locate"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "config"})

const EnvPrefix = "DEBUGFIND"

const (
	ConfigFileFlag       = "config"
	DebugDirsFlag        = "debug-dirs"
	PDBSearchPathsFlag   = "pdb.search-paths"
	VerifyCRCFlag        = "debuglink.verify-crc"
	SpotlightEnabledFlag = "spotlight.enabled"
	SpotlightTimeoutFlag = "spotlight.timeout"
	ProcPathFlag         = "proc-path"
	HostPathFlag         = "host-path"
	JobsFlag             = "jobs"
)

type Config struct {
	DebugDirs        []string
	PDBSearchPaths   []string
	VerifyCRC        bool
	SpotlightEnabled bool
	SpotlightTimeout time.Duration
	ProcPath         string
	HostPath         string
	Jobs             int
}

func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileFlag, "", "Path to a config file (yaml, json or toml).")
	fs.StringSlice(DebugDirsFlag, []string{locate.DefaultDebugDir}, "Global debug directories searched by the build-id and debuglink strategies.")
	fs.StringSlice(PDBSearchPathsFlag, nil, "Extra PDB search directories, tried after _NT_SYMBOL_PATH and _NT_ALT_SYMBOL_PATH.")
	fs.Bool(VerifyCRCFlag, true, "Verify the CRC-32 of debuglink candidates.")
	fs.Bool(SpotlightEnabledFlag, true, "Query Spotlight for dSYM bundles (macOS only).")
	fs.Duration(SpotlightTimeoutFlag, contentindex.DefaultTimeout, "Timeout of each Spotlight query.")
	fs.String(ProcPathFlag, "/proc", "Path to proc directory.")
	fs.String(HostPathFlag, "/", "The host directory. Useful in container.")
	fs.Int(JobsFlag, runtime.NumCPU(), "Number of modules resolved concurrently in --pid mode.")
	logging.RegisterFlags(fs)
}

// New returns a viper instance bound to fs, the environment and the config
// file named by --config, if any.
func New(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	if file := v.GetString(ConfigFileFlag); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		log.WithField(logfields.File, file).Debug("Loaded config file")
	}
	return v, nil
}

// Load reads the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DebugDirs:        v.GetStringSlice(DebugDirsFlag),
		PDBSearchPaths:   v.GetStringSlice(PDBSearchPathsFlag),
		VerifyCRC:        v.GetBool(VerifyCRCFlag),
		SpotlightEnabled: v.GetBool(SpotlightEnabledFlag),
		SpotlightTimeout: v.GetDuration(SpotlightTimeoutFlag),
		ProcPath:         v.GetString(ProcPathFlag),
		HostPath:         v.GetString(HostPathFlag),
		Jobs:             v.GetInt(JobsFlag),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", JobsFlag, c.Jobs)
	}
	if c.SpotlightEnabled && c.SpotlightTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %s", SpotlightTimeoutFlag, c.SpotlightTimeout)
	}
	return nil
}

// LocatorOptions converts the settings into locate options.
func (c *Config) LocatorOptions() []locate.Option {
	opts := []locate.Option{
		locate.WithDebugDirs(c.DebugDirs...),
		locate.WithPDBSearchPaths(c.PDBSearchPaths...),
		locate.WithVerifyCRC(c.VerifyCRC),
	}
	if c.SpotlightEnabled {
		opts = append(opts, locate.WithContentIndex(contentindex.New(c.SpotlightTimeout)))
	} else {
		opts = append(opts, locate.WithContentIndex(nil))
	}
	return opts
}
