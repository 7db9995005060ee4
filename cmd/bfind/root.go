package bfind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/varalys/bfind/internal/engine"
	"github.com/varalys/bfind/internal/logger"
)

// Exit statuses.
const (
	exitOK           = 0
	exitInvalidRegex = 1
	exitUsage        = 2
)

var (
	flagType       string
	flagDir        string
	flagExclude    string
	flagIgnoreFile string
	flagIgnoreCase bool
	flagVerbose    bool
	flagLogLevel   string
	flagNoColor    bool
	flagConfig     string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the bfind CLI. Running it with two
// positional arguments performs a search.
var rootCmd = &cobra.Command{
	Use:   "bfind <pattern> <max_depth>",
	Short: "Find files and directories by name, breadth-first",
	Long: "bfind walks a directory tree level by level and prints every entry whose\n" +
		"base name matches a regular expression, never descending below max_depth.",
	Example: `  bfind '\.go$' 2
  bfind -t dir '^(vendor|node_modules)$' 4 -d ~/src
  bfind --exclude '**/.git' 'README' 3`,
	Args:          cobra.ExactArgs(2),
	RunE:          runSearch,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the bfind CLI and exits with its status. It should be called
// by the main package.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command tree with args and maps the outcome to an exit
// status: 1 for an invalid pattern, 2 for any other usage error.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(searchArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	printError(stderr, err)
	if errors.Is(err, engine.ErrInvalidPattern) {
		return exitInvalidRegex
	}
	return exitUsage
}

func printError(w io.Writer, err error) {
	prefix := "error:"
	if logger.IsTerminal(w) && !errorNoColor() {
		c := color.New(color.FgRed, color.Bold)
		c.EnableColor()
		prefix = c.Sprint(prefix)
	}
	_, _ = fmt.Fprintln(w, prefix, err)
}

// errorNoColor reports whether no_color is in effect, from the flag or a
// config file.
func errorNoColor() bool {
	s, err := resolveSettings(rootCmd.PersistentFlags())
	if err != nil {
		return flagNoColor || s.NoColor
	}
	return s.NoColor
}

// searchArgs rewrites a search invocation (exactly two positionals, the
// second an integer) as "<flags> -- <pattern> <depth>". The pattern then
// never selects a subcommand, and a negative depth is not parsed as a
// shorthand flag. Anything else is returned unchanged.
func searchArgs(args []string) []string {
	rootCmd.InitDefaultHelpFlag()
	rootCmd.InitDefaultVersionFlag()

	var flags, pos []string
scan:
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			pos = append(pos, args[i+1:]...)
			break scan
		case isInteger(a), a == "-", !strings.HasPrefix(a, "-"):
			pos = append(pos, a)
		case strings.HasPrefix(a, "--"):
			flags = append(flags, a)
			name, _, hasValue := strings.Cut(a[2:], "=")
			if !hasValue && takesValue(lookupFlag(name, false)) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			flags = append(flags, a)
			if shorthandTakesNext(a[1:]) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		}
	}
	if len(pos) != 2 || !isInteger(pos[1]) {
		return args
	}
	out := make([]string, 0, len(flags)+3)
	out = append(out, flags...)
	out = append(out, "--")
	return append(out, pos...)
}

func isInteger(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func lookupFlag(name string, short bool) *pflag.Flag {
	for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), rootCmd.Flags()} {
		var f *pflag.Flag
		if short {
			f = fs.ShorthandLookup(name)
		} else {
			f = fs.Lookup(name)
		}
		if f != nil {
			return f
		}
	}
	return nil
}

func takesValue(f *pflag.Flag) bool {
	return f != nil && f.NoOptDefVal == ""
}

// shorthandTakesNext reports whether a shorthand cluster such as "vt" ends
// in a flag whose value is the following argument.
func shorthandTakesNext(cluster string) bool {
	for j := 0; j < len(cluster); j++ {
		f := lookupFlag(cluster[j:j+1], true)
		if f == nil {
			return false
		}
		if takesValue(f) {
			return j == len(cluster)-1
		}
	}
	return false
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagType, "type", "t", "", `entry type to report: all|file|dir (default "all")`)
	pf.StringVarP(&flagDir, "dir", "d", "", `start path for the search (default ".")`)
	pf.StringVar(&flagExclude, "exclude", "", "comma-separated globs pruned from the traversal")
	pf.StringVar(&flagIgnoreFile, "ignore-file", "", "gitignore-style file of paths to prune")
	pf.BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "match the pattern case-insensitively")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "report skipped entries and a summary on stderr")
	pf.StringVar(&flagLogLevel, "log-level", "", "stderr log level: trace|debug|info|warn|error (default \"warn\")")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized stderr output")
	pf.StringVar(&flagConfig, "config", "", "read defaults from this YAML file instead of .bfind.yml")

	_ = rootCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "file", "dir"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"trace", "debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagDirname("dir")
	_ = rootCmd.MarkPersistentFlagFilename("ignore-file")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yml", "yaml")
}
