// Package cli wires the organize commands: scanning a workspace,
// suggesting destinations, moving files, and maintaining the decision
// memory.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	workspaceRoot string
	logLevel      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "organize",
	Short: "organize - AI-assisted file organizer",
	Long: `organize sorts the files of a workspace into destination folders.
Suggestions fuse a local decision memory with model proposals; every
accepted move is remembered and sharpens the next run.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workspaceRoot, "root", "", "workspace root (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// resolveRoot returns the workspace root: the --root flag if given,
// otherwise the current directory.
func resolveRoot() (string, error) {
	if workspaceRoot != "" {
		return workspaceRoot, nil
	}
	return os.Getwd()
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
