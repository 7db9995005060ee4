package bfind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/varalys/bfind/internal/config"
	"golang.org/x/term"
)

var (
	cfgOutput string
	cfgForce  bool
	cfgFormat string
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .bfind.yml holding the current flag values as defaults",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVar(&cfgOutput, "output", ".bfind.yml", "output file path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings and where each value came from",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	showCmd.Flags().StringVar(&cfgFormat, "format", "auto", "output format: auto|table|plain")
	cfgCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	s, err := resolveSettings(cmd.Flags())
	if err != nil {
		return err
	}
	fc := config.FileConfig{
		Type:       strPtr(s.Type),
		Dir:        strPtr(s.Dir),
		Exclude:    optStrPtr(s.Exclude),
		IgnoreFile: optStrPtr(s.IgnoreFile),
		IgnoreCase: optBoolPtr(s.IgnoreCase),
		Verbose:    optBoolPtr(s.Verbose),
		NoColor:    optBoolPtr(s.NoColor),
	}
	if s.sources["log_level"] != sourceDefault {
		fc.LogLevel = strPtr(s.LogLevel)
	}
	if err := config.Save(cfgOutput, fc); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd.Flags())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch strings.ToLower(cfgFormat) {
	case "table":
		return renderSettingsTable(out, s)
	case "plain":
		return renderSettingsPlain(out, s)
	case "auto":
		if isTerminalWriter(out) {
			return renderSettingsTable(out, s)
		}
		return renderSettingsPlain(out, s)
	}
	return errors.New("--format must be one of auto, table, plain")
}

func renderSettingsTable(w io.Writer, s settings) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Setting", "Value", "Source"})
	for _, k := range settingKeys {
		if err := table.Append([]string{k, s.value(k), s.sources[k]}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderSettingsPlain(w io.Writer, s settings) error {
	for _, k := range settingKeys {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", k, s.value(k), s.sources[k]); err != nil {
			return err
		}
	}
	return nil
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func optBoolPtr(v bool) *bool {
	if !v {
		return nil
	}
	return &v
}
