package bfind

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varalys/bfind/internal/config"
	"github.com/varalys/bfind/internal/update"
)

// resetFlags restores every flag to its default so package-level command
// state does not leak between runs.
func resetFlags(c *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// sandbox moves into an empty working directory with no global config.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	resetFlags(rootCmd)
	var o, e bytes.Buffer
	code = run(args, &o, &e)
	return o.String(), e.String(), code
}

func writeFile(t *testing.T, p, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

// sampleTree builds root/{a.txt, sub/{b.txt, c.log}} under dir.
func sampleTree(t *testing.T, dir string) string {
	t.Helper()
	root := filepath.Join(dir, "root")
	writeFile(t, filepath.Join(root, "a.txt"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "b")
	writeFile(t, filepath.Join(root, "sub", "c.log"), "c")
	return root
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestCLI_DepthBoundedFileSearch(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)

	out, errOut, code := execute(t, `.*\.txt$`, "1", "--type", "file", "--dir", root)
	assert.Equal(t, 0, code, errOut)
	assert.Equal(t, filepath.Join(root, "a.txt")+"\n", out)
	assert.Empty(t, errOut)

	out, _, code = execute(t, "-t", "file", "-d", root, `\.txt$`, "2")
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "sub", "b.txt")}, lines(out))
}

func TestCLI_InvalidRegexExitsOne(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)

	out, errOut, code := execute(t, "[unclosed", "3", "-d", root)
	assert.Equal(t, exitInvalidRegex, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid regex pattern")
}

func TestCLI_InvalidDepth(t *testing.T) {
	sandbox(t)
	for _, depth := range []string{"abc", "1.5", "-1"} {
		out, errOut, code := execute(t, "x", depth)
		assert.Equal(t, exitUsage, code, depth)
		assert.Empty(t, out)
		assert.Contains(t, errOut, "invalid max depth")
	}
}

func TestCLI_UsageErrors(t *testing.T) {
	sandbox(t)
	_, errOut, code := execute(t, "only-pattern")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "accepts 2 arg(s)")

	_, errOut, code = execute(t, "x", "1", "--type", "socket")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "invalid entry type")

	_, errOut, code = execute(t, "x", "1", "--exclude", "[bad")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "invalid exclude glob")

	_, errOut, code = execute(t, "x", "1", "--ignore-file", "absent.ignore")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "load ignore file")

	_, errOut, code = execute(t, "x", "1", "--log-level", "loud")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "invalid log level")
}

func TestCLI_MissingStartDir(t *testing.T) {
	sandbox(t)
	out, errOut, code := execute(t, ".*", "4", "-d", "does-not-exist")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestCLI_DefaultDirIsDot(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, filepath.Join(dir, "notes.md"), "x")

	out, _, code := execute(t, `\.md$`, "1")
	assert.Equal(t, 0, code)
	assert.Equal(t, "."+string(filepath.Separator)+"notes.md\n", out)
}

func TestCLI_DirectoriesOnlyAndIgnoreCase(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)
	writeFile(t, filepath.Join(root, "SUBMARINE.txt"), "x")

	out, _, code := execute(t, "-t", "dir", "-i", "^sub", "5", "-d", root)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(root, "sub")}, lines(out))

	out, _, _ = execute(t, "-i", "^sub", "1", "-d", root)
	assert.ElementsMatch(t, []string{filepath.Join(root, "sub"), filepath.Join(root, "SUBMARINE.txt")}, lines(out))
}

func TestCLI_ExcludeAndIgnoreFile(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)
	writeFile(t, filepath.Join(root, "node_modules", "dep.txt"), "x")
	writeFile(t, filepath.Join(dir, "search.ignore"), "sub/\n")

	out, _, code := execute(t, `\.txt$`, "3", "-d", root, "--exclude", "node_modules")
	assert.Equal(t, 0, code)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.txt"), filepath.Join(root, "sub", "b.txt")}, lines(out))

	out, _, code = execute(t, `\.txt$`, "3", "-d", root, "--exclude", "node_modules", "--ignore-file", "search.ignore")
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, lines(out))
}

func TestCLI_VerboseReportsSkipsOnStderr(t *testing.T) {
	sandbox(t)
	out, errOut, code := execute(t, "-v", ".*", "2", "-d", "gone")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "[DEBUG] skipped gone:")
	assert.Contains(t, errOut, "[INFO] visited 0 entries, 0 matched, 1 skipped")
}

func TestCLI_LocalConfigAndPrecedence(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)
	writeFile(t, filepath.Join(dir, ".bfind.yml"), "type: dir\ndir: "+root+"\n")

	out, _, code := execute(t, ".*", "1")
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{root, filepath.Join(root, "sub")}, lines(out))

	// flags win over the file
	out, _, code = execute(t, ".*", "1", "-t", "file")
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(root, "a.txt")}, lines(out))
}

func TestCLI_ExplicitConfigAndGlobal(t *testing.T) {
	dir := sandbox(t)
	root := sampleTree(t, dir)
	writeFile(t, filepath.Join(dir, "xdg", "bfind", "config.yml"), "type: file\n")
	writeFile(t, filepath.Join(dir, "alt.yml"), "dir: "+root+"\n")

	out, _, code := execute(t, `\.log$`, "2", "--config", "alt.yml")
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(root, "sub", "c.log")}, lines(out))

	_, errOut, code := execute(t, "x", "1", "--config", "missing.yml")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "load config")

	writeFile(t, filepath.Join(dir, "bad.yml"), "depth: 3\n")
	_, errOut, code = execute(t, "x", "1", "--config", "bad.yml")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "load config")
}

func TestCLI_ConfigShowPlain(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, filepath.Join(dir, ".bfind.yml"), "exclude: vendor\n")

	out, errOut, code := execute(t, "config", "show", "--format", "plain", "-t", "dir")
	require.Equal(t, 0, code, errOut)
	got := lines(out)
	assert.Contains(t, got, "type\tdir\tflag")
	assert.Contains(t, got, "dir\t.\tdefault")
	assert.Contains(t, got, "exclude\tvendor\t.bfind.yml")
	assert.Contains(t, got, "log_level\twarn\tdefault")
	assert.Len(t, got, len(settingKeys))
}

func TestCLI_ConfigShowTable(t *testing.T) {
	sandbox(t)
	out, errOut, code := execute(t, "config", "show", "--format", "table", "-v")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "debug")
	assert.Contains(t, out, "flag")

	_, _, code = execute(t, "config", "show", "--format", "xml")
	assert.Equal(t, exitUsage, code)
}

func TestCLI_ConfigInit(t *testing.T) {
	dir := sandbox(t)
	out, errOut, code := execute(t, "config", "init", "-t", "file", "--exclude", "**/.git", "-i")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Wrote .bfind.yml\n", out)

	fc, err := config.LoadFile(filepath.Join(dir, ".bfind.yml"))
	require.NoError(t, err)
	require.NotNil(t, fc.Type)
	assert.Equal(t, "file", *fc.Type)
	require.NotNil(t, fc.Exclude)
	assert.Equal(t, "**/.git", *fc.Exclude)
	require.NotNil(t, fc.IgnoreCase)
	assert.True(t, *fc.IgnoreCase)
	assert.Nil(t, fc.Verbose)
	assert.Nil(t, fc.LogLevel)

	_, errOut, code = execute(t, "config", "init")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "already exists")

	_, _, code = execute(t, "config", "init", "--force", "-t", "dir")
	assert.Equal(t, 0, code)
	fc, err = config.LoadFile(filepath.Join(dir, ".bfind.yml"))
	require.NoError(t, err)
	assert.Equal(t, "dir", *fc.Type)
}

func TestCLI_CompletionAndVersion(t *testing.T) {
	sandbox(t)
	out, _, code := execute(t, "completion", "bash")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "bfind")

	_, _, code = execute(t, "completion", "tcsh")
	assert.Equal(t, exitUsage, code)

	out, _, code = execute(t, "version")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "bfind "+version), out)
}

func TestCLI_VersionCheck(t *testing.T) {
	sandbox(t)
	t.Setenv("CI", "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v99.0.0"}`))
	}))
	defer srv.Close()
	orig := newChecker
	newChecker = func() *update.Checker { return &update.Checker{URL: srv.URL, Client: srv.Client()} }
	t.Cleanup(func() { newChecker = orig })

	out, errOut, code := execute(t, "version", "--check")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "new version available: v99.0.0")

	t.Setenv("CI", "true")
	out, errOut, code = execute(t, "version", "--check")
	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "new version")
	assert.Contains(t, errOut, "skipped")
}

func TestCLI_PatternSpelledLikeSubcommand(t *testing.T) {
	dir := sandbox(t)
	root := filepath.Join(dir, "root")
	names := []string{"config", "help", "version", "completion"}
	for _, n := range names {
		writeFile(t, filepath.Join(root, n), n)
	}

	for _, n := range names {
		out, errOut, code := execute(t, n, "1", "-d", root)
		require.Equal(t, 0, code, "%s: %s", n, errOut)
		assert.Equal(t, []string{filepath.Join(root, n)}, lines(out), n)
	}

	out, errOut, code := execute(t, "-d", root, "-t", "file", "config", "1")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, []string{filepath.Join(root, "config")}, lines(out))
}

func TestSearchArgs(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"config", "1", "-d", "r"}, []string{"-d", "r", "--", "config", "1"}},
		{[]string{"-vt", "dir", "x", "2"}, []string{"-vt", "dir", "--", "x", "2"}},
		{[]string{"--type=dir", "x", "-1"}, []string{"--type=dir", "--", "x", "-1"}},
		{[]string{"--log-level", "debug", "help", "0", "-i"}, []string{"--log-level", "debug", "-i", "--", "help", "0"}},
		{[]string{"config", "show", "--format", "plain"}, []string{"config", "show", "--format", "plain"}},
		{[]string{"version", "--check"}, []string{"version", "--check"}},
		{[]string{"x", "abc"}, []string{"x", "abc"}},
		{[]string{"--", "a", "1", "b"}, []string{"--", "a", "1", "b"}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, searchArgs(c.in), "%q", c.in)
	}
}

func TestErrorNoColor_FromConfigFile(t *testing.T) {
	dir := sandbox(t)
	resetFlags(rootCmd)
	assert.False(t, errorNoColor())

	writeFile(t, filepath.Join(dir, ".bfind.yml"), "no_color: true\n")
	assert.True(t, errorNoColor())
}
