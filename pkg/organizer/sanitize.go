package organizer

import (
	"regexp"
	"strings"
)

var (
	invalidFolderChars = regexp.MustCompile(`[^A-Za-z0-9_\-/ ]+`)
	tokenPattern       = regexp.MustCompile(`[a-zA-Z0-9]{3,}`)
	// Markers must lead the line and stand alone: "Data-Analysis" and
	// "Thinking-Tools" are legitimate folder names.
	reasoningMarker = regexp.MustCompile(`(?i)^(thinking|done thinking)\.{0,3}(\s|$)|^analysis:`)
)

// SanitizeFolder normalizes a model-proposed folder name: surrounding
// quotes and whitespace are trimmed, characters outside
// [A-Za-z0-9_- /] are stripped, and spaces collapse to hyphens.
func SanitizeFolder(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, "\"'`")
	name = invalidFolderChars.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, " ", "-")
}

// Tokenize extracts lowercase alphanumeric runs of at least three
// characters, in order of appearance.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(text, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, strings.ToLower(m))
	}
	return tokens
}

// ParseProposals extracts folder-name candidates from raw model output.
// The model answers one folder per line but tends to interleave prose
// and reasoning; a line with internal whitespace and no path separator
// is prose, and lines with reasoning markers are never candidates.
func ParseProposals(raw string) []string {
	var proposals []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reasoningMarker.MatchString(line) {
			continue
		}
		if strings.ContainsAny(line, " \t") && !strings.Contains(line, "/") {
			continue
		}
		proposals = append(proposals, line)
	}
	return proposals
}
