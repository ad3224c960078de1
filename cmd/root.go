package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stackscan/cmd/ui/detection"
	"stackscan/pkg/config"
	detect "stackscan/pkg/detection"
	"stackscan/pkg/detection/cache"
	"stackscan/pkg/detection/types"
	"stackscan/pkg/util"
)

const Version = "0.3.0"

var (
	jsonOutput bool
	noCache    bool
	verbose    bool
	runTimeout time.Duration

	appConfig *config.Config
)

const Logo = `
███████╗████████╗ █████╗  ██████╗██╗  ██╗███████╗ ██████╗ █████╗ ███╗   ██╗
██╔════╝╚══██╔══╝██╔══██╗██╔════╝██║ ██╔╝██╔════╝██╔════╝██╔══██╗████╗  ██║
███████╗   ██║   ███████║██║     █████╔╝ ███████╗██║     ███████║██╔██╗ ██║
╚════██║   ██║   ██╔══██║██║     ██╔═██╗ ╚════██║██║     ██╔══██║██║╚██╗██║
███████║   ██║   ██║  ██║╚██████╗██║  ██╗███████║╚██████╗██║  ██║██║ ╚████║
╚══════╝   ╚═╝   ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═══╝
`

var rootCmd = &cobra.Command{
	Use:   "stackscan [PROJECT_PATH]",
	Short: "Detect frameworks, build tools and containers from project metadata",
	Long: Logo + `
Stackscan infers languages, frameworks, build tools and containerization from
README text and project manifests, scores every detection with supporting
evidence, and recommends CI pipeline steps.`,
	Version: Version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDetect,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the result cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&runTimeout, "timeout", 0, "per-run timeout (default from config)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the detection result as JSON")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(reportCmd)
}

// newEngine builds a detection engine from the loaded config and flags
func newEngine() (*detect.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	appConfig = cfg

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	pctx := &detect.PipelineContext{
		Logger: logger,
		Retry: detect.RetryPolicy{
			MaxAttempts:     cfg.RetryAttempts,
			InitialInterval: cfg.RetryInitial,
			MaxInterval:     cfg.RetryMax,
		},
	}
	if !noCache && !cfg.DisableCache {
		pctx.Cache = cache.New(cfg.CacheEntries, cfg.CacheTTL)
	}

	return detect.NewEngine(pctx), cfg, nil
}

// runPipeline resolves the project path, builds a ProjectInfo from the
// filesystem and runs the detection engine
func runPipeline(args []string) (*types.DetectionResult, string, error) {
	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}
	projectPath, err := util.ValidateProjectPath(projectPath)
	if err != nil {
		return nil, "", err
	}

	engine, cfg, err := newEngine()
	if err != nil {
		return nil, "", err
	}

	timeout := cfg.RunTimeout
	if runTimeout > 0 {
		timeout = runTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info := buildProjectInfo(projectPath)
	result, err := engine.Detect(ctx, info, projectPath)
	if err != nil {
		return nil, "", err
	}
	return result, projectPath, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	result, _, err := runPipeline(args)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	return detection.ShowDetectionResults(result)
}
