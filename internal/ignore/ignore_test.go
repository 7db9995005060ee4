package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, ".bfindignore")
	content := "node_modules/\n*.pem\n# comment\n\nsecret.env\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js": true,
		"certs/key.pem":             true,
		"secret.env":                true,
		"src/app.go":                false,
	}
	for p, want := range cases {
		if got := m.Match(p, false); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestIgnoreMatch_AnchoredAndNested(t *testing.T) {
	m := New("/build", "docs/**/*.tmp", "cache/", "  ", "# only a comment")
	if m.Len() != 3 {
		t.Fatalf("Len()=%d want 3", m.Len())
	}
	cases := map[string]bool{
		"build":            true,
		"build/out.bin":    true,
		"src/build":        false,
		"docs/a/b/c.tmp":   true,
		"docs/c.tmp":       true,
		"other/docs/c.tmp": false,
		"cache":            true,
		"deep/cache/entry": true,
		"./cache/entry":    true,
		"cachefile":        false,
		"":                 false,
	}
	for p, want := range cases {
		if got := m.Match(p, true); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing ignore file")
	}
	if m.Match("anything", false) {
		t.Fatal("empty matcher must not match")
	}
}

func TestZeroMatcher(t *testing.T) {
	var m Matcher
	if m.Match("a/b", true) {
		t.Fatal("zero matcher must not match")
	}
}

func TestIgnoreMatch_DirOnly(t *testing.T) {
	m := New("build/", "/out/", "logs/*.log")
	cases := []struct {
		rel   string
		isDir bool
		want  bool
	}{
		{"build", true, true},
		{"build", false, false},
		{"src/build", true, true},
		{"src/build", false, false},
		{"build/out.bin", false, true},
		{"out", true, true},
		{"out", false, false},
		{"src/out", true, false},
		{"logs/a.log", false, true},
	}
	for _, c := range cases {
		if got := m.Match(c.rel, c.isDir); got != c.want {
			t.Fatalf("Match(%q, %v)=%v want %v", c.rel, c.isDir, got, c.want)
		}
	}
}
