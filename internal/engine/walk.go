package engine

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// listBatch is how many directory entries are read per ReadDir call, so a
// huge directory never has to be held in memory as a whole listing.
const listBatch = 256

type walker struct {
	cfg      Config
	excludes []string
	queue    *frontier
	stats    Stats
}

func newWalker(cfg Config) *walker {
	return &walker{
		cfg:      cfg,
		excludes: parseGlobsList(cfg.ExcludeGlobs),
		queue:    newFrontier(64),
	}
}

// run drains the frontier, handing each match to yield. It stops early when
// yield returns false or ctx is done.
func (w *walker) run(ctx context.Context, yield func(string) bool) (Stats, error) {
	w.queue.Push(item{path: w.cfg.Root, depth: 0})
	w.stats.MaxQueue = 1

	for {
		it, ok := w.queue.Pop()
		if !ok {
			return w.stats, nil
		}
		if err := ctx.Err(); err != nil {
			return w.stats, err
		}
		if it.depth > w.cfg.MaxDepth {
			continue
		}

		info, err := os.Stat(it.path)
		if err != nil {
			w.skip(it.path, err)
			continue
		}
		w.stats.Visited++
		isDir := info.IsDir()

		if w.cfg.Type.Allows(isDir) && w.matchName(baseName(it.path)) {
			w.stats.Matched++
			if !yield(it.path) {
				return w.stats, nil
			}
		}

		if isDir && it.depth < w.cfg.MaxDepth {
			w.expand(it)
		}
	}
}

func (w *walker) matchName(name string) bool {
	if w.cfg.Pattern == nil {
		return true
	}
	return w.cfg.Pattern.MatchString(name)
}

// expand enqueues the immediate children of a directory in listing order.
func (w *walker) expand(parent item) {
	f, err := os.Open(parent.path)
	if err != nil {
		w.skip(parent.path, err)
		return
	}
	defer f.Close()

	for {
		entries, err := f.ReadDir(listBatch)
		for _, e := range entries {
			child := item{
				depth: parent.depth + 1,
				path:  joinChild(parent.path, e.Name()),
				rel:   joinRel(parent.rel, e.Name()),
			}
			if w.pruned(child, e) {
				w.stats.Pruned++
				continue
			}
			w.queue.Push(child)
		}
		if n := w.queue.Len(); n > w.stats.MaxQueue {
			w.stats.MaxQueue = n
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				w.skip(parent.path, err)
			}
			return
		}
	}
}

func (w *walker) pruned(child item, e fs.DirEntry) bool {
	if len(w.excludes) > 0 && matchAnyGlob(child.rel, w.excludes) {
		return true
	}
	return w.cfg.Ignore != nil && w.cfg.Ignore.Match(child.rel, isDirEntry(child.path, e))
}

// isDirEntry reports whether e is a directory, resolving symlinks the same
// way the traversal does.
func isDirEntry(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (w *walker) skip(path string, err error) {
	w.stats.Skipped++
	if w.cfg.OnSkip != nil {
		w.cfg.OnSkip(path, err)
	}
}

// joinChild appends name to parent without cleaning, so results keep the
// spelling of the start path ("." yields "./name").
func joinChild(parent, name string) string {
	if parent == "" {
		return name
	}
	if os.IsPathSeparator(parent[len(parent)-1]) {
		return parent + name
	}
	return parent + string(filepath.Separator) + name
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// baseName returns the final normal segment of p. Paths without one (the
// filesystem root, ".", "..", or a path ending in "..") yield "".
// Trailing separators and trailing "." segments are ignored.
func baseName(p string) string {
	p = p[len(filepath.VolumeName(p)):]
	for {
		end := len(p)
		for end > 0 && os.IsPathSeparator(p[end-1]) {
			end--
		}
		p = p[:end]
		if len(p) >= 2 && p[len(p)-1] == '.' && os.IsPathSeparator(p[len(p)-2]) {
			p = p[:len(p)-2]
			continue
		}
		break
	}
	i := len(p) - 1
	for i >= 0 && !os.IsPathSeparator(p[i]) {
		i--
	}
	name := p[i+1:]
	if name == "." || name == ".." {
		return ""
	}
	return name
}
