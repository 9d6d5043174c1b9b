package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akinus/organize/pkg/memory"
)

var clearScope string

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and maintain the decision memory",
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete remembered decisions",
	Long: `Deletes decisions from the project memory, the global memory, or
both. Clearing is idempotent; an already-empty scope is not an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scope := memory.Scope(clearScope)
		switch scope {
		case memory.ScopeProject, memory.ScopeGlobal, memory.ScopeAll:
		default:
			return fmt.Errorf("invalid scope %q (project, global or all)", clearScope)
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.Clear(scope); err != nil {
			return err
		}
		fmt.Printf("Cleared %s memory.\n", scope)
		return nil
	},
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many decisions each scope holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, scope := range []memory.Scope{memory.ScopeProject, memory.ScopeGlobal} {
			count, err := a.store.Count(scope)
			if err != nil {
				return err
			}
			fmt.Printf("%-8s %d decisions\n", scope, count)
		}
		return nil
	},
}

func init() {
	memoryClearCmd.Flags().StringVar(&clearScope, "scope", string(memory.ScopeProject), "scope to clear (project, global, all)")
	memoryCmd.AddCommand(memoryClearCmd)
	memoryCmd.AddCommand(memoryStatsCmd)
	rootCmd.AddCommand(memoryCmd)
}
