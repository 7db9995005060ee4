package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no config file exists at the searched
// locations.
var ErrNotFound = errors.New("no config file")

// LocalNames are the file names searched in the working directory, in order.
var LocalNames = []string{".bfind.yml", ".bfind.yaml", "bfind.yml", "bfind.yaml"}

// FileConfig is the on-disk YAML configuration shape for bfind. Nil fields
// are unset and fall through to the next source.
type FileConfig struct {
	Type       *string `yaml:"type,omitempty"`
	Dir        *string `yaml:"dir,omitempty"`
	Exclude    *string `yaml:"exclude,omitempty"`
	IgnoreFile *string `yaml:"ignore_file,omitempty"`
	IgnoreCase *bool   `yaml:"ignore_case,omitempty"`
	Verbose    *bool   `yaml:"verbose,omitempty"`
	LogLevel   *string `yaml:"log_level,omitempty"`
	NoColor    *bool   `yaml:"no_color,omitempty"`

	// Source is the file the values came from; empty when nothing was loaded.
	Source string `yaml:"-"`
}

// LoadFile reads a YAML config file from the provided path. Unknown keys are
// rejected so typos surface instead of being ignored.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// LoadLocal searches dir for a local config file. It supports
// .bfind.yml/.yaml and bfind.yml/.yaml, preferring the dotfiles.
func LoadLocal(dir string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config. It returns "" when neither can be determined.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "bfind", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p := GlobalPath()
	if p == "" {
		return FileConfig{}, errors.New("no config dir")
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg FileConfig) error {
	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
