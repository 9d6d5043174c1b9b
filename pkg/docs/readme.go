package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SectionHeader is the one README section this package owns. Every
// other section is opaque pass-through content.
const SectionHeader = "# Directory Description"

var (
	descriptionHeader = regexp.MustCompile(`(?m)^# Directory Description[ \t]*$`)
	anyHeader         = regexp.MustCompile(`(?m)^# `)
)

// UpdateDescription creates or rewrites the Directory Description
// section of the directory's README, leaving every other byte of the
// document untouched. A missing section is inserted at the top; a
// missing document is created with just that section.
func UpdateDescription(dir, description string) error {
	readmePath := filepath.Join(dir, ReadmeName)
	block := fmt.Sprintf("%s\n%s\n", SectionHeader, strings.TrimSpace(description))

	data, err := os.ReadFile(readmePath)
	if os.IsNotExist(err) {
		return os.WriteFile(readmePath, []byte(block), 0644)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", readmePath, err)
	}

	updated := MergeDescription(string(data), description)
	if err := os.WriteFile(readmePath, []byte(updated), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", readmePath, err)
	}
	return nil
}

// MergeDescription returns content with the Directory Description
// section body replaced by description. Sections are delimited by
// lines starting with "# "; untouched sections are preserved
// byte-for-byte.
func MergeDescription(content, description string) string {
	block := fmt.Sprintf("%s\n%s\n", SectionHeader, strings.TrimSpace(description))

	loc := descriptionHeader.FindStringIndex(content)
	if loc == nil {
		// Section absent: insert at the top
		if content == "" {
			return block
		}
		return block + "\n" + content
	}

	// Replace from the header line to the next section header (or EOF)
	end := len(content)
	rest := content[loc[1]:]
	if next := anyHeader.FindStringIndex(rest); next != nil {
		end = loc[1] + next[0]
		return content[:loc[0]] + block + "\n" + content[end:]
	}
	return content[:loc[0]] + block + content[end:]
}
