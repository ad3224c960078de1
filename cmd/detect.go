package cmd

import (
	"github.com/spf13/cobra"
)

// detectCmd is an explicit alias for the root detection flow
var detectCmd = &cobra.Command{
	Use:   "detect [PROJECT_PATH]",
	Short: "Detect frameworks and build tools for a project",
	Long: Logo + `
Runs the detection pipeline against a project directory and shows the
detected frameworks, build tools, warnings and confidence assessment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the detection result as JSON")
}
