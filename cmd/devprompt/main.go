package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "devprompt",
	Short: "Interview-driven generator for coding-assistant rules files",
	Long: `devprompt interviews you about your development preferences and turns
the answers into a rules file for your coding assistant.

Examples:
  devprompt                      run the interview, print rules to stdout
  devprompt -o cursor            run the interview, write .cursorrules
  devprompt -o aider --dir ~/p   write .aider.conf.yml into ~/p
  devprompt --offline            skip the local model, deterministic output`,
	SilenceUsage: true,
	RunE:         runInterview,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.Flags().StringP("output", "o", "", "vendor to write a rules file for (see `devprompt vendors`)")
	rootCmd.Flags().String("dir", ".", "directory to write the rules file into and to scan for project context")
	rootCmd.Flags().Int("max-questions", 0, "override the interview question budget")
	rootCmd.Flags().Bool("offline", false, "skip the LLM entirely; deterministic planning and rendering")
	rootCmd.Flags().Bool("no-welcome", false, "suppress the welcome banner")

	rootCmd.AddCommand(vendorsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
