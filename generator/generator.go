package generator

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"time"

	"github.com/erraggy/restgen/internal/issues"
	"github.com/erraggy/restgen/loader"
)

// Severity indicates the severity level of a generation issue.
type Severity = issues.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = issues.SeverityInfo
	// SeverityWarning indicates behavior that may surprise callers, such as
	// an unrecognized response treated as returning nothing
	SeverityWarning = issues.SeverityWarning
	// SeverityCritical indicates output that cannot be used
	SeverityCritical = issues.SeverityCritical
)

// GenerateIssue represents a single generation issue.
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "client.go", "widgets.go")
	Name string
	// Content is the generated source
	Content []byte
}

// GenerateResult contains the results of generating an SDK package.
type GenerateResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// SourcePath is the file, URL or synthetic name of the input document
	SourcePath string
	// SourceVersion is the document's openapi version string
	SourceVersion string
	// PackageName is the Go package name used in generation
	PackageName string
	// Vendor is the name of the vendor profile applied
	Vendor string
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if generation completed without critical issues
	Success bool
	// Tags lists the resource groups in first-seen order
	Tags []string
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// GeneratedTypes is the count of named types declared
	GeneratedTypes int
	// GeneratedOperations is the count of operations generated
	GeneratedOperations int
	// GeneratedFunctions is the count of methods emitted, including
	// all-pages siblings and union overloads
	GeneratedFunctions int
}

// HasCriticalIssues returns true if there are any critical issues
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator produces a client SDK package from an OpenAPI document.
type Generator struct {
	// PackageName is the Go package name for generated code.
	// If empty, defaults to "api"
	PackageName string

	// Vendor holds the vendor-specific rules. Nil uses the generic profile.
	Vendor *VendorProfile

	// FirstDeclaredResponse infers the response shape from the first
	// declared response instead of the first 2xx response.
	FirstDeclaredResponse bool

	// StrictMode causes generation to fail on any issues (even warnings)
	StrictMode bool

	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool

	// GenerateReadme enables README.md generation.
	// Default: true
	GenerateReadme bool

	// Logger receives progress and fallback diagnostics.
	Logger loader.Logger

	// UserAgent is the User-Agent string used when fetching URLs
	UserAgent string
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		PackageName:    "api",
		IncludeInfo:    true,
		GenerateReadme: true,
		Logger:         loader.NopLogger{},
	}
}

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	document *loader.Document

	packageName           string
	vendor                *VendorProfile
	firstDeclaredResponse bool
	strictMode            bool
	includeInfo           bool
	generateReadme        bool
	logger                loader.Logger
	userAgent             string
}

// GenerateWithOptions generates an SDK package using functional options.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(ctx,
//	    generator.WithFilePath("stripe.yaml"),
//	    generator.WithPackageName("stripe"),
//	    generator.WithVendor("stripe"),
//	)
func GenerateWithOptions(ctx context.Context, opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		PackageName:           cfg.packageName,
		Vendor:                cfg.vendor,
		FirstDeclaredResponse: cfg.firstDeclaredResponse,
		StrictMode:            cfg.strictMode,
		IncludeInfo:           cfg.includeInfo,
		GenerateReadme:        cfg.generateReadme,
		Logger:                cfg.logger,
		UserAgent:             cfg.userAgent,
	}

	if cfg.filePath != nil {
		return g.Generate(ctx, *cfg.filePath)
	}
	return g.GenerateDocument(cfg.document)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		packageName:    "api",
		includeInfo:    true,
		generateReadme: true,
		logger:         loader.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sourceCount := 0
	if cfg.filePath != nil {
		sourceCount++
	}
	if cfg.document != nil {
		sourceCount++
	}
	if sourceCount == 0 {
		return nil, errors.New("generator: must specify an input source (use WithFilePath or WithDocument)")
	}
	if sourceCount > 1 {
		return nil, errors.New("generator: must specify exactly one input source")
	}
	return cfg, nil
}

// WithFilePath specifies a file path, URL or "-" for stdin as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDocument specifies an already loaded document as the input source
func WithDocument(doc *loader.Document) Option {
	return func(cfg *generateConfig) error {
		if doc == nil || doc.Spec == nil {
			return errors.New("generator: document cannot be nil")
		}
		cfg.document = doc
		return nil
	}
}

// WithPackageName specifies the Go package name for generated code
// Default: "api"
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if err := validatePackageName(name); err != nil {
			return err
		}
		cfg.packageName = name
		return nil
	}
}

// WithVendor selects a built-in vendor profile by name.
func WithVendor(name string) Option {
	return func(cfg *generateConfig) error {
		p, err := BuiltinVendor(name)
		if err != nil {
			return err
		}
		cfg.vendor = p
		return nil
	}
}

// WithVendorProfile sets a custom vendor profile.
func WithVendorProfile(p *VendorProfile) Option {
	return func(cfg *generateConfig) error {
		if p == nil {
			return errors.New("generator: vendor profile cannot be nil")
		}
		if err := p.validate(); err != nil {
			return err
		}
		p.applyDefaults()
		cfg.vendor = p
		return nil
	}
}

// WithVendorFile loads a vendor profile from a YAML file.
func WithVendorFile(path string) Option {
	return func(cfg *generateConfig) error {
		p, err := LoadVendorProfile(path)
		if err != nil {
			return err
		}
		cfg.vendor = p
		return nil
	}
}

// WithFirstDeclaredResponse infers response shapes from the first declared
// response rather than the first 2xx response.
// Default: false
func WithFirstDeclaredResponse(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.firstDeclaredResponse = enabled
		return nil
	}
}

// WithStrictMode enables or disables strict mode (fail on warnings)
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithReadme enables or disables README.md generation
// Default: true
func WithReadme(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.generateReadme = enabled
		return nil
	}
}

// WithLogger sets the logger for diagnostics
func WithLogger(l loader.Logger) Option {
	return func(cfg *generateConfig) error {
		if l == nil {
			l = loader.NopLogger{}
		}
		cfg.logger = l
		return nil
	}
}

// WithUserAgent sets the User-Agent string used when fetching URLs
func WithUserAgent(ua string) Option {
	return func(cfg *generateConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

func validatePackageName(name string) error {
	if name == "" {
		return errors.New("generator: package name cannot be empty")
	}
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		return fmt.Errorf("generator: package name %q is not a valid Go identifier", name)
	}
	return nil
}

// Generate loads source and generates an SDK package from it.
func (g *Generator) Generate(ctx context.Context, source string) (*GenerateResult, error) {
	opts := []loader.Option{loader.WithLogger(g.logger())}
	if g.UserAgent != "" {
		opts = append(opts, loader.WithUserAgent(g.UserAgent))
	}
	doc, err := loader.Load(ctx, source, opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to load specification: %w", err)
	}
	return g.GenerateDocument(doc)
}

// GenerateDocument generates an SDK package from a loaded document.
// Defects in the document abort the run and no files are returned.
func (g *Generator) GenerateDocument(doc *loader.Document) (*GenerateResult, error) {
	startTime := time.Now()
	if doc == nil || doc.Spec == nil {
		return nil, errors.New("generator: document cannot be nil")
	}
	packageName := g.PackageName
	if packageName == "" {
		packageName = "api"
	}
	if err := validatePackageName(packageName); err != nil {
		return nil, err
	}
	profile := g.Vendor
	if profile == nil {
		var err error
		if profile, err = BuiltinVendor(DefaultVendor); err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
	}

	r := newRun(g, doc, profile, packageName)
	if err := r.execute(); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	result := &GenerateResult{
		Files:               r.files(),
		SourcePath:          doc.SourcePath,
		SourceVersion:       doc.Spec.OpenAPI,
		PackageName:         packageName,
		Vendor:              profile.Name,
		Tags:                r.tags,
		LoadTime:            doc.LoadTime,
		SourceSize:          doc.SourceSize,
		GeneratedTypes:      len(r.ts.Named()),
		GeneratedOperations: r.operations,
		GeneratedFunctions:  r.functions,
	}
	result.Issues = r.issues
	result.GenerateTime = time.Since(startTime)
	g.updateCounts(result)
	result.Success = result.CriticalCount == 0

	g.logger().Info("generated package",
		"package", packageName,
		"vendor", profile.Name,
		"files", len(result.Files),
		"operations", result.GeneratedOperations,
		"functions", result.GeneratedFunctions)

	if g.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		return result, fmt.Errorf("generator: generation failed in strict mode: %d critical issue(s), %d warning(s)",
			result.CriticalCount, result.WarningCount)
	}

	if !g.IncludeInfo {
		filtered := make([]GenerateIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
		result.InfoCount = 0
	}

	return result, nil
}

func (g *Generator) logger() loader.Logger {
	if g.Logger == nil {
		return loader.NopLogger{}
	}
	return g.Logger
}

// updateCounts updates the issue counts in the result
func (g *Generator) updateCounts(result *GenerateResult) {
	result.InfoCount, result.WarningCount, result.CriticalCount = issues.Counts(result.Issues)
}
