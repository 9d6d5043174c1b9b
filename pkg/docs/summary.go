package docs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/akinus/organize/pkg/ai"
)

// ErrNoProvider is returned when a summary must be generated but no
// model provider is configured. This is a configuration error and is
// surfaced loudly, since silently proceeding would produce a
// meaningless summary.
var ErrNoProvider = errors.New("model provider must be configured for directory summary generation")

// Sampling caps keep the prompt from exploding on big directories.
const (
	maxFilesPerDir  = 10
	maxFileBytes    = 20_000
	maxCharsPerFile = 3_000
)

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".rst": true, ".log": true,
	".py": true, ".js": true, ".ts": true, ".go": true, ".json": true,
	".yaml": true, ".yml": true, ".toml": true, ".csv": true, ".xml": true,
}

var thinkingBlock = regexp.MustCompile(`(?is)(thinking\.{0,3}|analysis:).*?(done thinking\.{0,3})`)
var thinkingLine = regexp.MustCompile(`(?im)^(thinking\.{0,3}|analysis:|done thinking\.{0,3})$`)

// Generator turns a directory into a short natural-language purpose
// description through a model call.
type Generator struct {
	provider ai.Provider
}

// NewGenerator creates a summary generator. The provider may be nil;
// Generate then fails with ErrNoProvider.
func NewGenerator(provider ai.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate describes the directory based on its names and sampled file
// contents. The model is asked for intent, not a file listing.
func (g *Generator) Generate(ctx context.Context, dir string) (string, error) {
	if g.provider == nil {
		return "", ErrNoProvider
	}

	corpus, err := collectDirectoryContext(dir)
	if err != nil {
		return "", fmt.Errorf("failed to collect directory context: %w", err)
	}

	prompt := fmt.Sprintf(`You are summarizing the purpose of a directory on a Linux system.

Based on the following information, write a short paragraph
describing what this directory is for.

Focus on intent, not listing files.

%s

Directory purpose:`, corpus)

	response, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return StripReasoning(response), nil
}

// Summarizer adapts the generator to the cache's Summarizer signature.
func (g *Generator) Summarizer() Summarizer {
	return g.Generate
}

// StripReasoning removes chain-of-thought blocks and standalone
// reasoning markers that some local models leak into their output.
func StripReasoning(text string) string {
	cleaned := thinkingBlock.ReplaceAllString(text, "")
	cleaned = thinkingLine.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// collectDirectoryContext builds the text corpus representing the
// directory: its name, immediate children, and snippets from a bounded
// sample of text files.
func collectDirectoryContext(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var subdirs, files []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(subdirs)
	sort.Strings(files)

	parts := []string{"Directory name:", filepath.Base(dir)}

	if len(subdirs) > 0 {
		parts = append(parts, "\nSubdirectories:")
		parts = append(parts, subdirs...)
	}
	if len(files) > 0 {
		parts = append(parts, "\nFiles:")
		parts = append(parts, files...)
	}

	sampled := 0
	for _, name := range files {
		if sampled >= maxFilesPerDir {
			break
		}
		if !textExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		snippet := readFileSnippet(filepath.Join(dir, name))
		if snippet == "" {
			continue
		}

		parts = append(parts, fmt.Sprintf("\n--- %s ---", name), snippet)
		sampled++
	}

	return strings.Join(parts, "\n"), nil
}

func readFileSnippet(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	buf := make([]byte, maxFileBytes)
	n, _ := f.Read(buf)
	text := strings.ToValidUTF8(string(buf[:n]), "")
	if len(text) > maxCharsPerFile {
		text = text[:maxCharsPerFile]
	}
	return strings.TrimSpace(text)
}
