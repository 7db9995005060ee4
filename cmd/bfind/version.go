package bfind

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/varalys/bfind/internal/update"
)

var (
	flagCheckUpdate bool

	newChecker = update.New
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the bfind version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "ask the release feed whether a newer version exists")
	rootCmd.AddCommand(cmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "bfind", buildVersion())
	if !flagCheckUpdate {
		return nil
	}
	res, err := newChecker().Check(cmd.Context(), version)
	switch {
	case errors.Is(err, update.ErrSkipped):
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "update check skipped in CI")
		return nil
	case err != nil:
		return fmt.Errorf("update check: %w", err)
	case res.Newer:
		_, _ = fmt.Fprintf(out, "new version available: v%s\n", res.Latest)
	default:
		_, _ = fmt.Fprintln(out, "up to date")
	}
	return nil
}

// buildVersion appends the VCS revision recorded in the binary, if any.
func buildVersion() string {
	v := version
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return v + " (" + s.Value[:7] + ")"
			}
		}
	}
	return v
}
