// Command zodgen generates Zod validation schemas from Laravel-style
// validation rules declared in annotated Go structs or *.zod.yaml
// definition files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ruleforge/zodgen/cmd/zodgen/generator"
	"github.com/ruleforge/zodgen/zodkit"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd()); err != nil {
		os.Exit(1)
	}
}

type options struct {
	dryRun     bool
	jsonOutput bool
	force      bool
	singleFile bool
	outDir     string
	locale     string
	verbose    bool
	noColor    bool
}

func rootCmd() *cobra.Command {
	var opts options

	ver := version
	if ver == commit {
		ver = "dev"
	}
	cmd := &cobra.Command{
		Use:   "zodgen [packages or yaml files]",
		Short: "Generate Zod schemas from validation rules",
		Long: `zodgen compiles Laravel-style validation rules into Zod schemas.

Rules come from two sources, producing identical output:
  - Go structs annotated with zodgen:@schema, using validate struct tags
  - *.zod.yaml definition files

Configuration is read from zodgen.toml in the current directory or any
parent. Flags override the configuration file.`,
		Version: fmt.Sprintf("%s (%s) %s", ver, commit, date),
		Example: `  zodgen ./...                   # scan all packages
  zodgen ./api ./models          # specific packages
  zodgen schemas.zod.yaml        # YAML definitions
  zodgen --dry-run --json ./...  # preview as JSON for IDE integration
  zodgen --single-file ./...     # one schemas.ts instead of per-schema files`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(cmd.Context(), args, opts)
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("zodgen %s (%s) %s\n", ver, commit, date))

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate and preview without writing files")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format (requires --dry-run)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite files not generated by zodgen")
	cmd.Flags().BoolVar(&opts.singleFile, "single-file", false, "Emit one schemas.ts instead of per-schema files")
	cmd.Flags().StringVar(&opts.outDir, "out", "", "Output directory (overrides zodgen.toml)")
	cmd.Flags().StringVar(&opts.locale, "locale", "", "Message catalog locale (overrides zodgen.toml)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log skipped rules and other details")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(configCmd())
	cmd.AddCommand(rulesCmd())

	return cmd
}

func run(ctx context.Context, args []string, opts options) error {
	cfg, err := zodkit.LoadConfig(".")
	if err != nil {
		return err
	}
	if opts.outDir != "" {
		cfg.OutDir = opts.outDir
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}
	if opts.singleFile {
		cfg.SingleFile = true
	}

	log := zodkit.NewLogger().SetVerbose(opts.verbose).SetNoColor(opts.noColor)
	if opts.jsonOutput {
		// keep stdout clean for the JSON document
		log = zodkit.NewLoggerWithWriter(os.Stderr).SetVerbose(opts.verbose).SetNoColor(true)
	}

	inputs, err := loadInputs(args, cfg, log)
	if err != nil {
		return err
	}

	gen := generator.New(cfg, log)
	schemas, err := gen.Run(ctx, inputs)
	if err != nil {
		if opts.dryRun && opts.jsonOutput {
			return printDryRunJSON(gen, nil, len(inputs))
		}
		return err
	}

	writer := generator.NewWriter(cfg, log)
	if opts.dryRun {
		files, err := writer.DryRun(schemas)
		if err != nil {
			return err
		}
		if opts.jsonOutput {
			return printDryRunJSON(gen, files, len(inputs))
		}
		for name, content := range files {
			log.Info("would write %s (%d bytes)", name, len(content))
		}
		log.Done("dry run: %d schemas, %d files", len(schemas), len(files))
		return nil
	}

	if err := writer.Write(schemas, opts.force); err != nil {
		return err
	}
	log.Done("generated %d schemas", len(schemas))
	return nil
}

// loadInputs gathers class inputs from YAML files named on the command
// line, YAML globs configured in zodgen.toml, and Go package patterns.
func loadInputs(args []string, cfg *zodkit.Config, log *zodkit.Logger) ([]*generator.ClassInput, error) {
	var yamlFiles []string
	var patterns []string
	for _, arg := range args {
		if strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
			yamlFiles = append(yamlFiles, arg)
		} else {
			patterns = append(patterns, arg)
		}
	}
	for _, glob := range cfg.Definitions {
		matches, err := filepath.Glob(glob)
		if err != nil {
			return nil, fmt.Errorf("definitions glob %s: %w", glob, err)
		}
		yamlFiles = append(yamlFiles, matches...)
	}

	var inputs []*generator.ClassInput
	for _, file := range yamlFiles {
		classes, err := generator.LoadYAMLFile(file)
		if err != nil {
			return nil, err
		}
		log.Load("%s (%d schemas)", file, len(classes))
		inputs = append(inputs, classes...)
	}

	if len(patterns) > 0 {
		extractor := generator.NewSourceExtractor(".", log)
		classes, err := extractor.Extract(patterns...)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, classes...)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no schema classes found")
	}
	return inputs, nil
}

func printDryRunJSON(gen *generator.Generator, files map[string][]byte, classes int) error {
	result := zodkit.DryRunResult{
		Success: true,
		Files:   make(map[string]string, len(files)),
		Stats: zodkit.DryRunStats{
			ClassesLoaded:  classes,
			FilesGenerated: len(files),
		},
	}
	for name, content := range files {
		result.Files[name] = string(content)
	}
	for _, d := range gen.Diagnostics() {
		result.AddDiagnostic(d)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func configCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Output the effective configuration",
		Long: `Output the effective zodgen configuration after merging zodgen.toml
with defaults. Useful for checking which config file is picked up and
what the resolved output directory is.`,
		Example: `  zodgen config
  zodgen config --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := zodkit.LoadConfig(".")
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			return toml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func rulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List supported validation rules",
		Long: `List every validation rule the compiler understands, with its
classification. Rules outside this list are skipped during generation
(logged with --verbose), never fatal.`,
		Example: `  zodgen rules
  zodgen rules --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := generator.RuleReference()
			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rules)
			}
			for _, r := range rules {
				fmt.Printf("%-20s %s\n", r.Name, r.Category)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
