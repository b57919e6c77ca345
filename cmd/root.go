package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/parisneo/requmancer/internal/generator"
	"github.com/parisneo/requmancer/internal/models"
)

var (
	flagOutput        string
	flagFormat        string
	flagIncludeHidden bool
	flagSitePackages  []string
	flagVerbose       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "requmancer <directory>",
	Short: "Summon your project's dependencies into a requirements file",
	Long: `requmancer scans a Python project for import statements, maps each
third-party module to its installed distribution and version, and writes a
dependency manifest.

Versions are read from the *.dist-info metadata in the project's virtualenv
(or the directories given with --site-packages); no Python interpreter is
executed. Modules without an installed distribution are still listed, with
their version left unpinned.

Examples:
  # Generate requirements.txt for a project
  requmancer ./myproject

  # Poetry-style output
  requmancer ./myproject -f poetry -o pyproject-deps.toml

  # Resolve against an explicit environment
  requmancer ./myproject --site-packages /opt/venv/lib/python3.12/site-packages`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "requirements.txt", "Output file path")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "pip", "Output format: pip, poetry")
	rootCmd.Flags().BoolVar(&flagIncludeHidden, "include-hidden", false, "Scan hidden directories (virtualenvs stay excluded)")
	rootCmd.Flags().StringArrayVar(&flagSitePackages, "site-packages", nil, "Site-packages directory to resolve versions from (repeatable)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})

	config := &models.Config{
		Directory:     args[0],
		OutputFile:    flagOutput,
		Format:        flagFormat,
		IncludeHidden: flagIncludeHidden,
		SitePackages:  flagSitePackages,
	}

	gen, err := generator.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}

	if err := gen.Generate(); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return nil
}
