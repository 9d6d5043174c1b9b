package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := GetRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "organize", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range GetRootCmd().Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "watch", "memory", "summarize", "configure"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestMemorySubcommands(t *testing.T) {
	var memCmd = memoryCmd
	names := map[string]bool{}
	for _, sub := range memCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["clear"])
	assert.True(t, names["stats"])
}

func TestResolveRoot(t *testing.T) {
	saved := workspaceRoot
	defer func() { workspaceRoot = saved }()

	workspaceRoot = "/some/workspace"
	root, err := resolveRoot()
	require.NoError(t, err)
	assert.Equal(t, "/some/workspace", root)

	workspaceRoot = ""
	root, err = resolveRoot()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}

func TestGetVersion(t *testing.T) {
	assert.Equal(t, version, GetVersion())
}

func TestProtectedName(t *testing.T) {
	assert.True(t, protectedName("README.md"))
	assert.True(t, protectedName("readme.md"))
	assert.True(t, protectedName("LICENSE"))
	assert.True(t, protectedName(".gitignore"))
	assert.False(t, protectedName("notes.txt"))
}

func TestInternalNamesNeverOrganized(t *testing.T) {
	assert.True(t, internalNames["README.md"])
	assert.True(t, internalNames[".ai_directory_summary.json"])
	assert.True(t, internalNames["project.db"])
	assert.False(t, internalNames["report.pdf"])
}
