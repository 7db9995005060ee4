package bfind

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
	"github.com/varalys/bfind/internal/config"
	"github.com/varalys/bfind/internal/logger"
)

const (
	sourceFlag    = "flag"
	sourceDefault = "default"
)

// settings are the search options after merging CLI > local > global >
// built-in defaults. sources records where each value came from.
type settings struct {
	Type       string
	Dir        string
	Exclude    string
	IgnoreFile string
	IgnoreCase bool
	Verbose    bool
	LogLevel   string
	NoColor    bool

	sources map[string]string
}

// settingKeys lists the YAML keys in display order.
var settingKeys = []string{"type", "dir", "exclude", "ignore_file", "ignore_case", "verbose", "log_level", "no_color"}

func (s settings) value(key string) string {
	switch key {
	case "type":
		return s.Type
	case "dir":
		return s.Dir
	case "exclude":
		return s.Exclude
	case "ignore_file":
		return s.IgnoreFile
	case "ignore_case":
		return strconv.FormatBool(s.IgnoreCase)
	case "verbose":
		return strconv.FormatBool(s.Verbose)
	case "log_level":
		return s.LogLevel
	case "no_color":
		return strconv.FormatBool(s.NoColor)
	}
	return ""
}

// loadConfigs returns the local and global file configs. An explicit
// --config path replaces the local lookup and must be readable.
func loadConfigs() (local, global config.FileConfig, err error) {
	if flagConfig != "" {
		local, err = config.LoadFile(flagConfig)
		if err != nil {
			return local, global, fmt.Errorf("load config: %w", err)
		}
	} else if c, lerr := config.LoadLocal("."); lerr == nil {
		local = c
	} else if !errors.Is(lerr, config.ErrNotFound) {
		return local, global, fmt.Errorf("load config: %w", lerr)
	}
	if c, gerr := config.LoadGlobal(); gerr == nil {
		global = c
	}
	return local, global, nil
}

// resolveSettings merges flags with config files.
func resolveSettings(flags *pflag.FlagSet) (settings, error) {
	local, global, err := loadConfigs()
	if err != nil {
		return settings{}, err
	}
	s := settings{sources: map[string]string{}}
	r := resolver{flags: flags, local: local, global: global, sources: s.sources}

	s.Type = r.pickString("type", "type", flagType, local.Type, global.Type, "all")
	s.Dir = r.pickString("dir", "dir", flagDir, local.Dir, global.Dir, ".")
	s.Exclude = r.pickString("exclude", "exclude", flagExclude, local.Exclude, global.Exclude, "")
	s.IgnoreFile = r.pickString("ignore-file", "ignore_file", flagIgnoreFile, local.IgnoreFile, global.IgnoreFile, "")
	s.IgnoreCase = r.pickBool("ignore-case", "ignore_case", flagIgnoreCase, local.IgnoreCase, global.IgnoreCase)
	s.Verbose = r.pickBool("verbose", "verbose", flagVerbose, local.Verbose, global.Verbose)
	s.LogLevel = r.pickString("log-level", "log_level", flagLogLevel, local.LogLevel, global.LogLevel, "")
	s.NoColor = r.pickBool("no-color", "no_color", flagNoColor, local.NoColor, global.NoColor)

	if s.LogLevel == "" {
		s.LogLevel = logger.DefaultLevel
		if s.Verbose {
			s.LogLevel = "debug"
		}
	} else if !logger.ValidLevel(s.LogLevel) {
		return s, fmt.Errorf("invalid log level %q: must be one of trace, debug, info, warn, error", s.LogLevel)
	}
	return s, nil
}

type resolver struct {
	flags         *pflag.FlagSet
	local, global config.FileConfig
	sources       map[string]string
}

func (r resolver) changed(flag string) bool {
	return r.flags != nil && r.flags.Changed(flag)
}

func (r resolver) pickString(flag, key, cli string, local, global *string, def string) string {
	switch {
	case r.changed(flag):
		r.sources[key] = sourceFlag
		return cli
	case local != nil:
		r.sources[key] = r.local.Source
		return *local
	case global != nil:
		r.sources[key] = r.global.Source
		return *global
	}
	r.sources[key] = sourceDefault
	return def
}

func (r resolver) pickBool(flag, key string, cli bool, local, global *bool) bool {
	switch {
	case r.changed(flag):
		r.sources[key] = sourceFlag
		return cli
	case local != nil:
		r.sources[key] = r.local.Source
		return *local
	case global != nil:
		r.sources[key] = r.global.Source
		return *global
	}
	r.sources[key] = sourceDefault
	return false
}
