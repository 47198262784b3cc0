package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/erraggy/restgen"
)

// ReadmeGenerator generates README.md files for generated code.
type ReadmeGenerator struct{}

// NewReadmeGenerator creates a new ReadmeGenerator.
func NewReadmeGenerator() *ReadmeGenerator {
	return &ReadmeGenerator{}
}

// ReadmeContext contains all information needed to generate a README.
type ReadmeContext struct {
	// GeneratorVersion is the version of restgen used.
	GeneratorVersion string

	// SourcePath is the path to the source document.
	SourcePath string

	// OASVersion is the OpenAPI version (e.g., "3.0.3").
	OASVersion string

	// APITitle is the title from the info section.
	APITitle string

	// APIVersion is the version from the info section.
	APIVersion string

	// APIDescription is the description from the info section.
	APIDescription string

	// CLICommand is the command used to generate this code.
	CLICommand string

	// PackageName is the Go package name.
	PackageName string

	// Vendor is the vendor profile applied.
	Vendor string

	// GeneratedFiles lists all generated files with descriptions.
	GeneratedFiles []GeneratedFileSummary

	// Resources lists the resource groups.
	Resources []ResourceSummary
}

// GeneratedFileSummary describes a generated file.
type GeneratedFileSummary struct {
	// FileName is the name of the generated file.
	FileName string

	// Description describes what the file contains.
	Description string

	// LineCount is the number of lines in the file (optional).
	LineCount int
}

// ResourceSummary describes one resource group.
type ResourceSummary struct {
	Tag       string
	TypeName  string
	Functions int
}

// GenerateReadme generates a README.md file.
func (g *ReadmeGenerator) GenerateReadme(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString(g.generateHeader(ctx))
	buf.WriteString(g.generateOverview(ctx))
	buf.WriteString(g.generateFilesSection(ctx))
	if len(ctx.Resources) > 0 {
		buf.WriteString(g.generateResourcesSection(ctx))
	}
	buf.WriteString(g.generateUsageSection(ctx))
	buf.WriteString(g.generateRegenerationSection(ctx))
	buf.WriteString(g.generateFooter(ctx))
	return buf.String()
}

func (g *ReadmeGenerator) generateHeader(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	title := ctx.APITitle
	if title == "" {
		title = "Generated API Client"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	if ctx.APIDescription != "" {
		fmt.Fprintf(&buf, "%s\n\n", strings.TrimSpace(ctx.APIDescription))
	}
	return buf.String()
}

func (g *ReadmeGenerator) generateOverview(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("## Overview\n\n")
	buf.WriteString("This package was generated by restgen from an OpenAPI specification.\n\n")
	buf.WriteString("| Property | Value |\n")
	buf.WriteString("|----------|-------|\n")
	if ctx.APIVersion != "" {
		fmt.Fprintf(&buf, "| API Version | %s |\n", ctx.APIVersion)
	}
	if ctx.OASVersion != "" {
		fmt.Fprintf(&buf, "| OpenAPI Version | %s |\n", ctx.OASVersion)
	}
	fmt.Fprintf(&buf, "| Package | `%s` |\n", ctx.PackageName)
	if ctx.Vendor != "" {
		fmt.Fprintf(&buf, "| Vendor Profile | %s |\n", ctx.Vendor)
	}
	if ctx.GeneratorVersion != "" {
		fmt.Fprintf(&buf, "| Generator Version | %s |\n", ctx.GeneratorVersion)
	}
	buf.WriteString("\n")
	return buf.String()
}

func (g *ReadmeGenerator) generateFilesSection(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("## Generated Files\n\n")
	if len(ctx.GeneratedFiles) == 0 {
		buf.WriteString("No files were generated.\n\n")
		return buf.String()
	}
	buf.WriteString("| File | Description |\n")
	buf.WriteString("|------|-------------|\n")
	for _, f := range ctx.GeneratedFiles {
		desc := f.Description
		if f.LineCount > 0 {
			desc = fmt.Sprintf("%s (%d lines)", desc, f.LineCount)
		}
		fmt.Fprintf(&buf, "| `%s` | %s |\n", f.FileName, desc)
	}
	buf.WriteString("\n")
	return buf.String()
}

func (g *ReadmeGenerator) generateResourcesSection(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("## Resources\n\n")
	buf.WriteString("| Accessor | Functions |\n")
	buf.WriteString("|----------|-----------|\n")
	for _, res := range ctx.Resources {
		fmt.Fprintf(&buf, "| `client.%s()` | %d |\n", res.TypeName, res.Functions)
	}
	buf.WriteString("\n")
	return buf.String()
}

func (g *ReadmeGenerator) generateUsageSection(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("## Usage\n\n")
	buf.WriteString("```go\n")
	fmt.Fprintf(&buf, "client, err := %s.NewClient(\"\", restclient.WithBearerToken(token))\n", ctx.PackageName)
	buf.WriteString("if err != nil {\n")
	buf.WriteString("    log.Fatal(err)\n")
	buf.WriteString("}\n")
	if len(ctx.Resources) > 0 {
		fmt.Fprintf(&buf, "ops := client.%s()\n", ctx.Resources[0].TypeName)
	}
	buf.WriteString("```\n\n")
	buf.WriteString("Paginated list operations come in pairs: one method returns a single page and its\n")
	buf.WriteString("`All` sibling walks every page sequentially and returns the items in page order.\n\n")
	return buf.String()
}

func (g *ReadmeGenerator) generateRegenerationSection(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("## Regeneration\n\n")
	buf.WriteString("To regenerate this code, run:\n\n")
	buf.WriteString("```bash\n")
	if ctx.CLICommand != "" {
		buf.WriteString(ctx.CLICommand)
	} else {
		cmd := "restgen generate"
		if ctx.SourcePath != "" {
			cmd += " " + ctx.SourcePath
		}
		if ctx.PackageName != "" {
			cmd += " --package " + ctx.PackageName
		}
		if ctx.Vendor != "" && ctx.Vendor != DefaultVendor {
			cmd += " --vendor " + ctx.Vendor
		}
		buf.WriteString(cmd)
	}
	buf.WriteString("\n```\n\n")
	buf.WriteString("> **Note:** Do not edit generated files directly. Make changes to the OpenAPI specification and regenerate.\n\n")
	return buf.String()
}

func (g *ReadmeGenerator) generateFooter(ctx *ReadmeContext) string {
	var buf bytes.Buffer
	buf.WriteString("---\n\n")
	buf.WriteString("Generated by restgen")
	if ctx.GeneratorVersion != "" {
		fmt.Fprintf(&buf, " v%s", ctx.GeneratorVersion)
	}
	buf.WriteString("\n")
	return buf.String()
}

// readme builds the README for the files generated so far.
func (r *run) readme(files []GeneratedFile) string {
	ctx := &ReadmeContext{
		GeneratorVersion: restgen.Version(),
		OASVersion:       r.doc.Spec.OpenAPI,
		PackageName:      r.packageName,
		Vendor:           r.profile.Name,
		Resources:        r.resources(),
	}
	if !strings.HasPrefix(r.doc.SourcePath, "<") && r.doc.SourcePath != "LoadData.yaml" {
		ctx.SourcePath = r.doc.SourcePath
	}
	if info := r.doc.Spec.Info; info != nil {
		ctx.APITitle = info.Title
		ctx.APIVersion = info.Version
		ctx.APIDescription = info.Description
	}
	for _, f := range files {
		ctx.GeneratedFiles = append(ctx.GeneratedFiles, GeneratedFileSummary{
			FileName:    f.Name,
			Description: describeFile(f.Name),
			LineCount:   bytes.Count(f.Content, []byte("\n")),
		})
	}
	return NewReadmeGenerator().GenerateReadme(ctx)
}

func describeFile(name string) string {
	switch name {
	case "client.go":
		return "Client, constructor and resource accessors"
	case "types.go":
		return "Schema types"
	}
	return "Operations of " + strings.TrimSuffix(name, ".go")
}
