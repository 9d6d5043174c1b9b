package scanner

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// FileContext is the normalized, metadata-only view of a file used for
// classification. It deliberately carries no file content: placement
// decisions are made from metadata and learned context.
type FileContext struct {
	Path      string
	Name      string
	Extension string
	SizeBytes int64
	MimeType  string
}

// DirectoryContext is a directory and its semantic meaning: the cached
// AI description plus immediate children by name.
type DirectoryContext struct {
	Path        string
	Name        string
	Description string
	Files       []string
	Subdirs     []string
}

// BuildFileContext builds a FileContext from a path without reading
// the file's content.
func BuildFileContext(path string) (FileContext, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileContext{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	return FileContext{
		Path:      path,
		Name:      filepath.Base(path),
		Extension: ext,
		SizeBytes: info.Size(),
		MimeType:  mime.TypeByExtension(ext),
	}, nil
}
