package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/akinus/organize/pkg/docs"
)

// internalFiles never show up in directory listings: they belong to
// the tool, not to the user's content.
var internalFiles = map[string]bool{
	docs.SidecarName: true,
	docs.ReadmeName:  true,
}

// Options configures a scan.
type Options struct {
	Ignore *IgnoreRules
	// MaxDepth limits recursion; negative means unlimited.
	MaxDepth int
	// Summaries, when set together with Summarize, attaches cached
	// AI directory descriptions and keeps each README's Directory
	// Description section current. A summary failure never fails the
	// scan.
	Summaries *docs.Cache
	Summarize docs.Summarizer
	Logger    zerolog.Logger
}

// Scan walks the tree under root and returns a DirectoryContext per
// directory, the root first, shallower directories before deeper ones.
func Scan(ctx context.Context, root string, opts Options) ([]DirectoryContext, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A broken subtree is skipped, not fatal
			opts.Logger.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != root {
			if opts.Ignore.ShouldIgnore(path) || strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if opts.MaxDepth >= 0 && depthOf(root, path) > opts.MaxDepth {
				return fs.SkipDir
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	useAI := opts.Summaries != nil && opts.Summarize != nil

	var contexts []DirectoryContext
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary := ""
		if useAI && dir != root {
			if s, ok := opts.Summaries.GetOrRefresh(ctx, dir, opts.Summarize); ok {
				summary = s
				if err := docs.UpdateDescription(dir, summary); err != nil {
					opts.Logger.Warn().Err(err).Str("dir", dir).Msg("README update failed")
				}
			}
		}

		dc, err := buildDirectoryContext(dir, summary, opts.Ignore)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
			continue
		}
		contexts = append(contexts, dc)
	}

	// Root first, then by depth
	sort.SliceStable(contexts, func(i, j int) bool {
		return depthOf(root, contexts[i].Path) < depthOf(root, contexts[j].Path)
	})

	return contexts, nil
}

func buildDirectoryContext(dir, summary string, ignore *IgnoreRules) (DirectoryContext, error) {
	dc := DirectoryContext{
		Path:        dir,
		Name:        filepath.Base(dir),
		Description: summary,
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return DirectoryContext{}, err
	}
	for _, child := range children {
		name := child.Name()
		if ignore.ShouldIgnore(filepath.Join(dir, name)) || internalFiles[name] {
			continue
		}
		if child.IsDir() {
			dc.Subdirs = append(dc.Subdirs, name)
		} else {
			dc.Files = append(dc.Files, name)
		}
	}

	return dc, nil
}

func depthOf(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}
