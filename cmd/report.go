package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"stackscan/pkg/pipeline"
)

var (
	reportFormat string
	withPlan     bool
)

// reportCmd emits the full detection result for downstream tooling
var reportCmd = &cobra.Command{
	Use:   "report [PROJECT_PATH]",
	Short: "Emit the full detection result as JSON or YAML",
	Long: Logo + `
Runs the detection pipeline and prints the complete result, including
evidence, conflicts, alternatives and warnings, for consumption by CI
workflow generators.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "output", "o", "json", "output format: json or yaml")
	reportCmd.Flags().BoolVar(&withPlan, "plan", false, "include recommended CI pipeline steps")
}

func runReport(cmd *cobra.Command, args []string) error {
	result, _, err := runPipeline(args)
	if err != nil {
		return err
	}

	payload := any(result)
	if withPlan {
		payload = struct {
			Result any            `json:"result" yaml:"result"`
			Plan   *pipeline.Plan `json:"plan" yaml:"plan"`
		}{Result: result, Plan: pipeline.Build(result)}
	}

	switch reportFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unsupported output format %q", reportFormat)
	}
}
