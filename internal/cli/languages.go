package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"codescope/internal/analyzer"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := analyzer.NewRegistry()
		for _, name := range registry.Languages() {
			fmt.Printf("%-12s %v\n", name, registry.Extensions([]string{name}))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
