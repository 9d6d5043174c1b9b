package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path/filepath"
	"strconv"
)

// SidecarName is the per-directory summary cache file.
const SidecarName = ".ai_directory_summary.json"

// ReadmeName is the per-directory description document.
const ReadmeName = "README.md"

// Fingerprint hashes the directory's content state: every file under
// dir, recursively, contributes its relative path, size, and truncated
// modification time, in lexicographic path order. The sidecar cache and
// the description document are excluded so that writing them does not
// invalidate the cache they serve. Two directories with identical file
// sets, sizes, and mtimes always fingerprint identically.
func Fingerprint(dir string) (string, error) {
	h := sha256.New()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if name == SidecarName || name == ReadmeName {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		h.Write([]byte(rel))
		h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
		h.Write([]byte(strconv.FormatInt(info.ModTime().Unix(), 10)))
		return nil
	})
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
