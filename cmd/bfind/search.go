package bfind

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varalys/bfind/internal/engine"
	"github.com/varalys/bfind/internal/ignore"
	"github.com/varalys/bfind/internal/logger"
)

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := buildEngineConfig(s, args[0], args[1])
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), s.LogLevel, s.NoColor)
	if log.Enabled("debug") {
		cfg.OnSkip = func(path string, err error) {
			log.LogDebug("skipped %s: %v", path, err)
		}
	}
	log.LogDebug("searching %s to depth %d (type %s)", cfg.Root, cfg.MaxDepth, cfg.Type)

	out := cmd.OutOrStdout()
	stats, err := engine.Walk(cmd.Context(), cfg, func(p string) {
		_, _ = fmt.Fprintln(out, p)
	})
	if err != nil {
		return err
	}
	log.LogInfo("visited %d entries, %d matched, %d skipped, %d pruned, peak frontier %d",
		stats.Visited, stats.Matched, stats.Skipped, stats.Pruned, stats.MaxQueue)
	return nil
}

// buildEngineConfig validates every user input before any traversal starts.
// The depth is checked first, then the pattern.
func buildEngineConfig(s settings, pattern, depthArg string) (engine.Config, error) {
	var cfg engine.Config
	depth, err := engine.ParseMaxDepth(depthArg)
	if err != nil {
		return cfg, err
	}
	re, err := engine.CompilePattern(pattern, s.IgnoreCase)
	if err != nil {
		return cfg, err
	}
	typ, err := engine.ParseEntryType(s.Type)
	if err != nil {
		return cfg, err
	}
	if err := engine.ValidateGlobs(s.Exclude); err != nil {
		return cfg, err
	}
	cfg = engine.Config{
		Root:         s.Dir,
		Pattern:      re,
		MaxDepth:     depth,
		Type:         typ,
		ExcludeGlobs: s.Exclude,
	}
	if s.IgnoreFile != "" {
		m, err := ignore.Load(s.IgnoreFile)
		if err != nil {
			return cfg, fmt.Errorf("load ignore file: %w", err)
		}
		cfg.Ignore = m
	}
	return cfg, nil
}
