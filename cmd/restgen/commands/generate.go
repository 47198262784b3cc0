package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erraggy/restgen"
	"github.com/erraggy/restgen/generator"
	"github.com/erraggy/restgen/internal/cliutil"
	"github.com/erraggy/restgen/internal/pathutil"
	"github.com/erraggy/restgen/loader"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [flags] <file|url|->",
		Short: "Generate a Go client SDK from an OpenAPI 3 document",
		Long: "Generate a Go client package from an OpenAPI 3 document.\n\n" +
			"Use '-' as the source to read the document from stdin.",
		Example: "  restgen generate -o ./stripe -p stripe --vendor stripe stripe.yaml\n" +
			"  restgen generate -o ./github -p github --vendor github https://example.com/api.github.com.yaml\n" +
			"  restgen generate -o ./acme --vendor-file acme.yaml acme.yaml\n" +
			"  cat openapi.yaml | restgen generate -o ./client -",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "output directory for generated files (required)")
	f.StringP("package", "p", "api", "Go package name for generated code")
	f.String("vendor", "generic", "built-in vendor profile: "+strings.Join(generator.VendorNames(), ", "))
	f.String("vendor-file", "", "YAML vendor profile (overrides --vendor)")
	f.Bool("strict", false, "fail on any generation warnings")
	f.Bool("first-declared-response", false, "infer result types from the first declared response instead of the first 2xx")
	f.Bool("no-readme", false, "don't generate README.md")
	f.Bool("include-info", false, "report informational issues such as dropped parameters")
	a.bindFlags(cmd, "output", "package", "vendor", "vendor-file", "strict",
		"first-declared-response", "no-readme", "include-info")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, source string) error {
	outputDir := a.v.GetString("output")
	if outputDir == "" {
		return errors.New("output directory is required (use -o or --output)")
	}
	outputDir, err := pathutil.SanitizeOutputDir(outputDir)
	if err != nil {
		return err
	}

	start := time.Now()
	logger := loader.NewSlogAdapter(a.logger)

	doc, err := loader.Load(cmd.Context(), source,
		loader.WithStdin(cmd.InOrStdin()),
		loader.WithLogger(logger),
		loader.WithUserAgent(restgen.UserAgent()),
	)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	opts := []generator.Option{
		generator.WithDocument(doc),
		generator.WithPackageName(a.v.GetString("package")),
		generator.WithFirstDeclaredResponse(a.v.GetBool("first-declared-response")),
		generator.WithStrictMode(a.v.GetBool("strict")),
		generator.WithIncludeInfo(a.v.GetBool("include-info")),
		generator.WithReadme(!a.v.GetBool("no-readme")),
		generator.WithLogger(logger),
	}
	if file := a.v.GetString("vendor-file"); file != "" {
		opts = append(opts, generator.WithVendorFile(file))
	} else {
		opts = append(opts, generator.WithVendor(a.v.GetString("vendor")))
	}

	result, genErr := generator.GenerateWithOptions(cmd.Context(), opts...)
	if result == nil {
		return fmt.Errorf("generating code: %w", genErr)
	}

	out := cmd.OutOrStdout()
	cliutil.Writef(out, "restgen %s\n", restgen.Version())
	if source == loader.Stdin {
		cliutil.Writef(out, "Specification: <stdin>\n")
	} else {
		cliutil.Writef(out, "Specification: %s\n", source)
	}
	cliutil.Writef(out, "OAS Version: %s\n", result.SourceVersion)
	cliutil.Writef(out, "Source Size: %s\n", cliutil.FormatBytes(result.SourceSize))
	cliutil.Writef(out, "Package: %s\n", result.PackageName)
	cliutil.Writef(out, "Vendor: %s\n", result.Vendor)
	cliutil.Writef(out, "Resources: %d\n", len(result.Tags))
	cliutil.Writef(out, "Types: %d\n", result.GeneratedTypes)
	cliutil.Writef(out, "Operations: %d\n", result.GeneratedOperations)
	cliutil.Writef(out, "Functions: %d\n", result.GeneratedFunctions)
	cliutil.Writef(out, "Total Time: %v\n\n", time.Since(start).Round(time.Millisecond))

	if len(result.Issues) > 0 {
		cliutil.Writef(out, "Generation Issues (%d):\n", len(result.Issues))
		for _, issue := range result.Issues {
			cliutil.Writef(out, "  %s\n", issue.String())
		}
		cliutil.Writef(out, "\n")
	}

	if genErr != nil {
		return fmt.Errorf("generating code: %w", genErr)
	}

	if err := result.WriteFiles(outputDir); err != nil {
		return fmt.Errorf("writing files: %w", err)
	}

	cliutil.Writef(out, "Generated Files (%d):\n", len(result.Files))
	for _, file := range result.Files {
		cliutil.Writef(out, "  - %s/%s (%s)\n", outputDir, file.Name, cliutil.FormatBytes(int64(len(file.Content))))
	}
	cliutil.Writef(out, "\n")

	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Writef(out, "✓ Generation successful (%d info, %d warnings)\n", result.InfoCount, result.WarningCount)
	} else {
		cliutil.Writef(out, "✓ Generation successful\n")
	}
	return nil
}
