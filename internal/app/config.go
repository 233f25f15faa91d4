package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

const projectConfigPath = ".hitcount.toml"

type fileConfig struct {
	Ties     string                `toml:"ties"`
	Verbose  *bool                 `toml:"verbose"`
	Profiles map[string]fileConfig `toml:"profiles"`
}

// resolveGlobalOptions layers user config, project config, an explicit config
// file, environment and finally flags that were set on the command line.
func resolveGlobalOptions(cmd *cobra.Command, defaults *globalOptions) (*globalOptions, error) {
	resolved := *defaults

	profile := firstNonEmpty(env("HITCOUNT_PROFILE"), defaults.Profile)
	if flagValueChanged(cmd, "profile") {
		profile = defaults.Profile
	}
	if profile == "" {
		profile = "default"
	}
	resolved.Profile = profile

	userPath := defaultUserConfigPath()
	explicit := env("HITCOUNT_CONFIG")
	if flagValueChanged(cmd, "config") {
		explicit = defaults.Config
	}

	for _, path := range []string{userPath, projectConfigPath} {
		cfg, ok, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if ok {
			applyFileConfig(&resolved, cfg, profile)
		}
	}
	if explicit != "" && explicit != userPath && explicit != projectConfigPath {
		cfg, ok, err := readConfigFile(explicit)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("config file not found: %s", explicit)
		}
		applyFileConfig(&resolved, cfg, profile)
	}

	if err := applyEnv(&resolved); err != nil {
		return nil, err
	}
	applyFlags(cmd, &resolved, defaults)

	resolved.Config = firstNonEmpty(explicit, userPath)
	return &resolved, nil
}

func applyFileConfig(dst *globalOptions, cfg fileConfig, profile string) {
	if p, ok := cfg.Profiles[profile]; ok {
		cfg = mergeFileConfig(cfg, p)
	}
	if cfg.Ties != "" {
		dst.Ties = cfg.Ties
	}
	if cfg.Verbose != nil {
		dst.Verbose = *cfg.Verbose
	}
}

func mergeFileConfig(base, overlay fileConfig) fileConfig {
	if overlay.Ties != "" {
		base.Ties = overlay.Ties
	}
	if overlay.Verbose != nil {
		base.Verbose = overlay.Verbose
	}
	return base
}

func applyEnv(dst *globalOptions) error {
	if v := env("HITCOUNT_TIES"); v != "" {
		dst.Ties = v
	}
	if v := env("HITCOUNT_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HITCOUNT_VERBOSE: %s", v)
		}
		dst.Verbose = b
	}
	return nil
}

func applyFlags(cmd *cobra.Command, dst, fromFlags *globalOptions) {
	copyIfChanged(cmd, "ties", func() { dst.Ties = fromFlags.Ties })
	copyIfChanged(cmd, "verbose", func() { dst.Verbose = fromFlags.Verbose })
	copyIfChanged(cmd, "profile", func() { dst.Profile = fromFlags.Profile })
}

func copyIfChanged(cmd *cobra.Command, name string, fn func()) {
	if flagValueChanged(cmd, name) {
		fn()
	}
}

func flagValueChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

// readConfigFile reports ok=false for a missing file. A file that exists but
// does not parse is an error.
func readConfigFile(path string) (fileConfig, bool, error) {
	if strings.TrimSpace(path) == "" {
		return fileConfig{}, false, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileConfig{}, false, nil
	}
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, true, nil
}

func defaultUserConfigPath() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "hitcount", "config.toml")
	}
	home := strings.TrimSpace(os.Getenv("HOME"))
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "hitcount", "config.toml")
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
