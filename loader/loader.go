package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/erraggy/restgen"
	"github.com/erraggy/restgen/oaserrors"
)

// DefaultMaxSize is the largest document Load will read (64 MiB).
const DefaultMaxSize int64 = 64 << 20

// Stdin is the source name that makes Load read standard input.
const Stdin = "-"

// methodOrder is the fixed verb order used when listing operations.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
	http.MethodPatch,
	http.MethodTrace,
}

// Document is a loaded OpenAPI document plus its ordered operations.
type Document struct {
	// Spec is the parsed document.
	Spec *openapi3.T
	// Operations lists every (path, verb) pair in deterministic order.
	Operations []*Operation
	// SourcePath is the file path, URL, or a synthetic name for in-memory input.
	SourcePath string
	// SourceSize is the size of the raw document in bytes.
	SourceSize int64
	// LoadTime is the time spent reading the source.
	LoadTime time.Duration
}

// Operation is one HTTP verb bound to one path template.
type Operation struct {
	// Path is the path template, e.g. "/v1/accounts/{id}".
	Path string
	// Method is the upper-case HTTP verb.
	Method string
	// Op is the operation object.
	Op *openapi3.Operation
	// PathItem holds path-level parameters and servers shared by all verbs.
	PathItem *openapi3.PathItem
	// ResponseOrder lists response status keys in declaration order.
	ResponseOrder []string
}

// Responses returns the status keys in declaration order. When the order
// could not be recovered, keys are sorted with "default" last.
func (o *Operation) Responses() []string {
	if len(o.ResponseOrder) > 0 {
		return o.ResponseOrder
	}
	if o.Op == nil || o.Op.Responses == nil {
		return nil
	}
	keys := make([]string, 0, o.Op.Responses.Len())
	for k := range o.Op.Responses.Map() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "default" || keys[j] == "default" {
			return keys[j] == "default" && keys[i] != "default"
		}
		return keys[i] < keys[j]
	})
	return keys
}

// String returns "GET /path".
func (o *Operation) String() string {
	return o.Method + " " + o.Path
}

// Option configures a load.
type Option func(*loadConfig)

type loadConfig struct {
	logger     Logger
	httpClient *http.Client
	userAgent  string
	maxSize    int64
	validate   bool
	stdin      io.Reader
}

// WithLogger sets the logger used while loading.
func WithLogger(l Logger) Option {
	return func(c *loadConfig) { c.logger = l }
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *loadConfig) { c.httpClient = client }
}

// WithUserAgent overrides the User-Agent sent for URL sources.
func WithUserAgent(ua string) Option {
	return func(c *loadConfig) { c.userAgent = ua }
}

// WithMaxSize limits the number of bytes read from the source.
func WithMaxSize(n int64) Option {
	return func(c *loadConfig) { c.maxSize = n }
}

// WithValidation runs kin-openapi document validation after parsing.
func WithValidation(enabled bool) Option {
	return func(c *loadConfig) { c.validate = enabled }
}

// WithStdin replaces os.Stdin as the reader for the "-" source.
func WithStdin(r io.Reader) Option {
	return func(c *loadConfig) { c.stdin = r }
}

func applyOptions(opts []Option) *loadConfig {
	cfg := &loadConfig{
		logger:    NopLogger{},
		userAgent: restgen.UserAgent(),
		maxSize:   DefaultMaxSize,
		stdin:     os.Stdin,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return cfg
}

// Load reads and parses the document at source.
func Load(ctx context.Context, source string, opts ...Option) (*Document, error) {
	cfg := applyOptions(opts)

	start := time.Now()
	data, err := cfg.read(ctx, source)
	loadTime := time.Since(start)
	if err != nil {
		return nil, err
	}

	doc, err := parse(ctx, cfg, source, data)
	if err != nil {
		return nil, err
	}
	doc.LoadTime = loadTime
	return doc, nil
}

// LoadData parses an in-memory document.
func LoadData(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	cfg := applyOptions(opts)
	return parse(ctx, cfg, "LoadData.yaml", data)
}

func (c *loadConfig) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case source == Stdin:
		c.logger.Debug("reading document from stdin")
		return c.readAll(source, c.stdin)
	case isURL(source):
		return c.fetch(ctx, source)
	default:
		f, err := os.Open(source) //nolint:gosec // user-provided path
		if err != nil {
			return nil, &oaserrors.ParseError{Path: source, Message: "cannot open document", Cause: err}
		}
		defer func() { _ = f.Close() }()
		return c.readAll(source, f)
	}
}

func (c *loadConfig) readAll(source string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, c.maxSize+1))
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "cannot read document", Cause: err}
	}
	if int64(len(data)) > c.maxSize {
		return nil, &oaserrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("document exceeds maximum size of %d bytes", c.maxSize),
		}
	}
	return data, nil
}

func (c *loadConfig) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: rawURL, Message: "invalid URL", Cause: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching document", "url", rawURL)
	resp, err := c.httpClient.Do(req) //nolint:gosec // URL is user-provided input
	if err != nil {
		return nil, &oaserrors.ParseError{Path: rawURL, Message: "cannot fetch document", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &oaserrors.ParseError{
			Path:    rawURL,
			Message: fmt.Sprintf("unexpected status %s", resp.Status),
		}
	}
	return c.readAll(rawURL, resp.Body)
}

func parse(ctx context.Context, cfg *loadConfig, source string, data []byte) (*Document, error) {
	kin := openapi3.NewLoader()
	kin.Context = ctx
	kin.IsExternalRefsAllowed = false

	spec, err := kin.LoadFromData(data)
	if err != nil {
		return nil, &oaserrors.ParseError{Path: source, Message: "cannot decode document", Cause: err}
	}
	if !strings.HasPrefix(spec.OpenAPI, "3.") {
		return nil, &oaserrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("unsupported OpenAPI version %q", spec.OpenAPI),
		}
	}
	if cfg.validate {
		if err := spec.Validate(ctx); err != nil {
			return nil, &oaserrors.ParseError{Path: source, Message: "document is invalid", Cause: err}
		}
	}

	order, err := responseOrder(data)
	if err != nil {
		cfg.logger.Warn("cannot recover response declaration order; using sorted status codes",
			"source", source, "error", err)
		order = nil
	}

	doc := &Document{
		Spec:       spec,
		Operations: collectOperations(spec, order),
		SourcePath: source,
		SourceSize: int64(len(data)),
	}
	cfg.logger.Debug("loaded document",
		"source", source,
		"title", titleOf(spec),
		"operations", len(doc.Operations))
	return doc, nil
}

// FromSpec wraps an already parsed document. Response declaration order is
// not available, so status keys are sorted.
func FromSpec(spec *openapi3.T) *Document {
	return &Document{
		Spec:       spec,
		Operations: collectOperations(spec, nil),
		SourcePath: "<memory>",
	}
}

func collectOperations(spec *openapi3.T, order orderIndex) []*Operation {
	if spec.Paths == nil {
		return nil
	}
	items := spec.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var ops []*Operation
	for _, path := range paths {
		item := items[path]
		if item == nil {
			continue
		}
		for _, method := range methodOrder {
			op := item.GetOperation(method)
			if op == nil {
				continue
			}
			ops = append(ops, &Operation{
				Path:          path,
				Method:        method,
				Op:            op,
				PathItem:      item,
				ResponseOrder: order.lookup(path, method),
			})
		}
	}
	return ops
}

func titleOf(spec *openapi3.T) string {
	if spec.Info == nil {
		return ""
	}
	return spec.Info.Title
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
