package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restgen/generator"
	"github.com/erraggy/restgen/internal/pathutil"
	"github.com/erraggy/restgen/loader"
)

type generateInput struct {
	Spec                  specInput `json:"spec"                              jsonschema:"The OAS 3.x document to generate a client from"`
	PackageName           string    `json:"package_name,omitempty"            jsonschema:"Go package name for generated code (default: api)"`
	Vendor                string    `json:"vendor,omitempty"                  jsonschema:"Built-in vendor profile (default: RESTGEN_VENDOR or generic)"`
	FirstDeclaredResponse bool      `json:"first_declared_response,omitempty" jsonschema:"Infer result types from the first declared response instead of the first 2xx"`
	Strict                *bool     `json:"strict,omitempty"                  jsonschema:"Fail on warnings (default: RESTGEN_STRICT)"`
	OutputDir             string    `json:"output_dir"                        jsonschema:"Directory to write generated files to"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generateOutput struct {
	Success             bool                `json:"success"`
	OutputDir           string              `json:"output_dir"`
	PackageName         string              `json:"package_name"`
	Vendor              string              `json:"vendor"`
	FileCount           int                 `json:"file_count"`
	Files               []generatedFileInfo `json:"files"`
	Resources           []string            `json:"resources"`
	GeneratedTypes      int                 `json:"generated_types"`
	GeneratedOperations int                 `json:"generated_operations"`
	GeneratedFunctions  int                 `json:"generated_functions"`
	WarningCount        int                 `json:"warning_count"`
	Warnings            []string            `json:"warnings,omitempty"`
	Cached              bool                `json:"cached,omitempty"`
}

// generationOptions are the generate inputs that change the emitted code.
type generationOptions struct {
	vendor        string
	packageName   string
	firstDeclared bool
	strict        bool
}

func (o generationOptions) generatorOptions(doc *loader.Document) []generator.Option {
	opts := []generator.Option{
		generator.WithDocument(doc),
		generator.WithVendor(o.vendor),
		generator.WithFirstDeclaredResponse(o.firstDeclared),
		generator.WithStrictMode(o.strict),
		generator.WithIncludeInfo(false),
		generator.WithReadme(false),
	}
	if o.packageName != "" {
		opts = append(opts, generator.WithPackageName(o.packageName))
	}
	return opts
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}
	outputDir, err := pathutil.SanitizeOutputDir(input.OutputDir)
	if err != nil {
		return errResult(fmt.Errorf("invalid output_dir path: %w", err)), generateOutput{}, nil
	}

	if err := input.Spec.validate(); err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := generationOptions{
		vendor:        input.Vendor,
		packageName:   input.PackageName,
		firstDeclared: input.FirstDeclaredResponse,
		strict:        cfg.Strict,
	}
	if opts.vendor == "" {
		opts.vendor = cfg.Vendor
	}
	if input.Strict != nil {
		opts.strict = *input.Strict
	}

	var key string
	if cfg.CacheEnabled {
		key = generationKey(documentKey(input.Spec), opts)
	}
	result, cached := genCache.lookup(key)
	if !cached {
		doc, err := input.Spec.resolve(ctx)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		result, err = generator.GenerateWithOptions(ctx, opts.generatorOptions(doc)...)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		if key != "" {
			genCache.store(key, result, input.Spec.cacheTTL())
		}
	}

	if err := result.WriteFiles(outputDir); err != nil {
		return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
	}

	output := generateOutput{
		Success:             result.Success,
		OutputDir:           outputDir,
		PackageName:         result.PackageName,
		Vendor:              result.Vendor,
		FileCount:           len(result.Files),
		Resources:           result.Tags,
		GeneratedTypes:      result.GeneratedTypes,
		GeneratedOperations: result.GeneratedOperations,
		GeneratedFunctions:  result.GeneratedFunctions,
		WarningCount:        result.WarningCount,
		Cached:              cached,
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		output.Files = append(output.Files, generatedFileInfo{
			Name: f.Name,
			Size: len(f.Content),
		})
	}
	output.Warnings = makeSlice[string](result.WarningCount)
	for _, issue := range result.Issues {
		if issue.Severity == generator.SeverityWarning {
			output.Warnings = append(output.Warnings, issue.String())
		}
	}

	return nil, output, nil
}
