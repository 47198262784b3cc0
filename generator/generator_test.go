package generator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restgen/internal/issues"
	"github.com/erraggy/restgen/loader"
	"github.com/erraggy/restgen/oaserrors"
)

const widgetsSpec = `openapi: 3.0.3
info:
  title: Widgets
  version: "1.0"
  description: Manage widgets and shapes.
servers:
  - url: "https://{region}.example.com/"
    variables:
      region: {default: api}
paths:
  /v1/widgets:
    get:
      summary: List widgets.
      parameters:
        - {name: limit, in: query, schema: {type: integer}}
        - {name: starting_after, in: query, schema: {type: string}}
        - {name: expand, in: query, schema: {type: array, items: {type: string}}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  has_more: {type: boolean}
                  data:
                    type: array
                    items: {$ref: '#/components/schemas/Widget'}
    post:
      operationId: createWidget
      requestBody:
        required: true
        content:
          application/json:
            schema: {$ref: '#/components/schemas/Widget'}
      responses:
        "201":
          description: created
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Widget'}
  /v1/widgets/{id}:
    parameters:
      - {name: id, in: path, required: true, schema: {type: string}}
    get:
      operationId: getWidget
      parameters:
        - {name: type, in: query, schema: {type: string}}
        - {name: IDs, in: query, schema: {type: array, items: {type: string}}}
      responses:
        "404": {description: missing}
        "200":
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Widget'}
    delete:
      operationId: deleteWidget
      deprecated: true
      responses:
        "204": {description: deleted}
  /v1/widgets/{id}/tokens:
    post:
      operationId: createWidgetToken
      x-restgen-reentrant: true
      servers:
        - url: https://uploads.example.com/
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses:
        "201":
          description: token
          content:
            text/plain:
              schema: {type: string}
  /v1/shapes/{id}:
    get:
      operationId: getShape
      parameters:
        - {name: id, in: path, required: true, schema: {type: string}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                oneOf:
                  - {$ref: '#/components/schemas/Circle'}
                  - {$ref: '#/components/schemas/Square'}
  /v1/reports:
    get:
      operationId: getReport
      responses:
        "200":
          description: ok
          content:
            application/xml:
              schema: {type: string}
components:
  schemas:
    Widget:
      type: object
      description: A widget.
      required: [id]
      properties:
        id: {type: string}
        name: {type: string}
    Circle:
      type: object
      properties:
        radius: {type: number}
    Square:
      type: object
      properties:
        side: {type: number}
`

func generate(t *testing.T, spec string, opts ...Option) *GenerateResult {
	t.Helper()
	doc := loadDoc(t, spec)
	result, err := GenerateWithOptions(context.Background(), append([]Option{WithDocument(doc)}, opts...)...)
	require.NoError(t, err)
	return result
}

func fileContent(t *testing.T, result *GenerateResult, name string) string {
	t.Helper()
	f := result.GetFile(name)
	require.NotNil(t, f, "missing %s", name)
	return string(f.Content)
}

func TestGenerateWidgets(t *testing.T) {
	result := generate(t, widgetsSpec, WithVendor("stripe"), WithPackageName("widgets"))

	assert.True(t, result.Success)
	assert.Equal(t, "stripe", result.Vendor)
	assert.Equal(t, "widgets", result.PackageName)
	assert.Equal(t, []string{"reports", "shapes", "widgets"}, result.Tags)
	assert.Equal(t, 7, result.GeneratedOperations)
	assert.Equal(t, 10, result.GeneratedFunctions)

	var names []string
	for _, f := range result.Files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"client.go", "types.go", "reports.go", "shapes.go", "widgets.go", "README.md"}, names)

	t.Run("client", func(t *testing.T) {
		src := fileContent(t, result, "client.go")
		assert.Contains(t, src, "package widgets")
		assert.Contains(t, src, `const DefaultHost = "https://api.example.com"`)
		assert.Contains(t, src, "/generated/Widgets\"")
		assert.Contains(t, src, "func NewClient(host string, opts ...restclient.ClientOption) (*Client, error) {")
		assert.Contains(t, src, "func (c *Client) Widgets() *Widgets {")
		assert.Contains(t, src, "func (c *Client) Shapes() *Shapes {")
	})

	t.Run("types", func(t *testing.T) {
		src := fileContent(t, result, "types.go")
		assert.Contains(t, src, "// Widget A widget.")
		assert.Contains(t, src, "type Widget struct {")
		assert.Contains(t, src, "type GetShapeResponse struct {")
		assert.Contains(t, src, "func (u GetShapeResponse) AsCircle() (Circle, error) {")
	})

	t.Run("paginated list", func(t *testing.T) {
		src := fileContent(t, result, "widgets.go")
		assert.Contains(t, src, "// Code generated by restgen. DO NOT EDIT.")
		assert.Contains(t, src, "type Widgets struct {")
		assert.Contains(t, src, "func (s *Widgets) GetPage(ctx context.Context, limit *int64, startingAfter *string) ([]Widget, error) {")
		assert.Contains(t, src, `return restclient.DecodeField[[]Widget](resp, "data")`)
		assert.Contains(t, src, "func (s *Widgets) GetAll(ctx context.Context) ([]Widget, error) {")
		assert.Contains(t, src, `return pagination.All[Widget](ctx, s.client, uri, pagination.HasMore{Collection: "data", Flag: "has_more"})`)
		assert.Contains(t, src, "GetAll returns the items of every page, following the has_more pagination of GetPage.")
		assert.NotContains(t, src, "expand")
	})

	t.Run("single operations", func(t *testing.T) {
		src := fileContent(t, result, "widgets.go")
		assert.Contains(t, src, "func (s *Widgets) Get(ctx context.Context, id string, ids []string, type_ *string) (*Widget, error) {")
		assert.Contains(t, src, `restclient.AddQuery(q, "IDs", ids)`)
		assert.Contains(t, src, `restclient.AddQuery(q, "type", type_)`)
		assert.Contains(t, src, `uri := "/v1/widgets/" + restclient.PathParam(id)`)
		assert.Contains(t, src, "func (s *Widgets) Create(ctx context.Context, body *Widget) (*Widget, error) {")
		assert.Contains(t, src, "encoded, err := restclient.JSONBody(body)")
		assert.Contains(t, src, "func (s *Widgets) Delete(ctx context.Context, id string) error {")
		assert.Contains(t, src, "// Deprecated: This operation is deprecated.")
	})

	t.Run("reentrant with server override", func(t *testing.T) {
		src := fileContent(t, result, "widgets.go")
		assert.Contains(t, src, `widgetsCreateWidgetTokenServer = "https://uploads.example.com"`)
		assert.Contains(t, src, "func (s *Widgets) CreateToken(ctx context.Context, id string) (string, error) {")
		assert.Contains(t, src, "ctx = restclient.Reentrant(ctx)")
		assert.Contains(t, src, `uri := widgetsCreateWidgetTokenServer + "/v1/widgets/" + restclient.PathParam(id) + "/tokens"`)
	})

	t.Run("union overloads", func(t *testing.T) {
		src := fileContent(t, result, "shapes.go")
		assert.Contains(t, src, "func (s *Shapes) Get(ctx context.Context, id string) (GetShapeResponse, error) {")
		assert.Contains(t, src, "func (s *Shapes) GetCircle(ctx context.Context, id string) (Circle, error) {")
		assert.Contains(t, src, "func (s *Shapes) GetSquare(ctx context.Context, id string) (Square, error) {")
		assert.Contains(t, src, "return v.AsSquare()")
	})

	t.Run("unrecognized response", func(t *testing.T) {
		src := fileContent(t, result, "reports.go")
		assert.Contains(t, src, "func (s *Reports) Get(ctx context.Context) error {")
		assert.True(t, result.HasWarnings())
		var found bool
		for _, issue := range result.Issues {
			if issue.Code == issues.CodeResponseShapeUnrecognized {
				found = true
				assert.Equal(t, "paths./v1/reports.get", issue.Path)
				require.NotNil(t, issue.Operation)
				assert.Equal(t, "get_report", issue.Operation.OperationID)
			}
		}
		assert.True(t, found)
	})

	t.Run("dropped parameters", func(t *testing.T) {
		var dropped []string
		for _, issue := range result.Issues {
			if issue.Code == issues.CodeParameterDropped {
				dropped = append(dropped, issue.Message)
			}
		}
		assert.Equal(t, []string{"parameter expand (noise) dropped from the signature"}, dropped)
	})

	t.Run("readme", func(t *testing.T) {
		src := fileContent(t, result, "README.md")
		assert.Contains(t, src, "Widgets")
		assert.Contains(t, src, "--vendor stripe")
	})
}

func TestGenerateFormatsEveryFile(t *testing.T) {
	result := generate(t, widgetsSpec, WithVendor("stripe"))
	for _, issue := range result.Issues {
		assert.NotEqual(t, issues.CodeFormatFailed, issue.Code, issue.Message)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first := generate(t, widgetsSpec, WithVendor("stripe"))
	second := generate(t, widgetsSpec, WithVendor("stripe"))
	require.Len(t, second.Files, len(first.Files))
	for i := range first.Files {
		assert.Equal(t, first.Files[i].Name, second.Files[i].Name)
		assert.Equal(t, string(first.Files[i].Content), string(second.Files[i].Content), first.Files[i].Name)
	}
}

func TestGenerateFirstDeclaredResponse(t *testing.T) {
	result := generate(t, widgetsSpec, WithVendor("stripe"), WithFirstDeclaredResponse(true))
	src := fileContent(t, result, "widgets.go")
	assert.Contains(t, src, "func (s *Widgets) Get(ctx context.Context, id string, ids []string, type_ *string) error {")
}

func TestGenerateOptions(t *testing.T) {
	t.Run("no readme", func(t *testing.T) {
		result := generate(t, widgetsSpec, WithReadme(false))
		assert.Nil(t, result.GetFile("README.md"))
	})

	t.Run("info filtered", func(t *testing.T) {
		result := generate(t, widgetsSpec, WithVendor("stripe"), WithIncludeInfo(false))
		assert.Zero(t, result.InfoCount)
		for _, issue := range result.Issues {
			assert.NotEqual(t, SeverityInfo, issue.Severity)
		}
	})

	t.Run("strict mode fails on warnings", func(t *testing.T) {
		doc := loadDoc(t, widgetsSpec)
		result, err := GenerateWithOptions(context.Background(), WithDocument(doc), WithStrictMode(true))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "strict mode")
		require.NotNil(t, result)
		assert.Equal(t, 1, result.WarningCount)
	})

	t.Run("invalid options", func(t *testing.T) {
		doc := loadDoc(t, widgetsSpec)
		tests := []struct {
			name string
			opts []Option
		}{
			{"no source", nil},
			{"two sources", []Option{WithDocument(doc), WithFilePath("widgets.yaml")}},
			{"nil document", []Option{WithDocument(nil)}},
			{"keyword package", []Option{WithDocument(doc), WithPackageName("func")}},
			{"bad package", []Option{WithDocument(doc), WithPackageName("my-api")}},
			{"unknown vendor", []Option{WithDocument(doc), WithVendor("acme")}},
			{"nil profile", []Option{WithDocument(doc), WithVendorProfile(nil)}},
			{"missing profile file", []Option{WithDocument(doc), WithVendorFile(filepath.Join(t.TempDir(), "none.yaml"))}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := GenerateWithOptions(context.Background(), tt.opts...)
				assert.Error(t, err)
			})
		}
	})

	t.Run("custom profile", func(t *testing.T) {
		profile, err := ParseVendorProfile([]byte("name: acme\nnoise_parameters: [limit]\ndrivers: [has_more]\n"))
		require.NoError(t, err)
		result := generate(t, widgetsSpec, WithVendorProfile(profile))
		assert.Equal(t, "acme", result.Vendor)
		src := fileContent(t, result, "widgets.go")
		assert.Contains(t, src, "func (s *Widgets) GetPage(ctx context.Context, expand []string, startingAfter *string) ([]Widget, error) {")
	})
}

func TestGenerateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(widgetsSpec), 0o600))

	result, err := GenerateWithOptions(context.Background(), WithFilePath(path), WithVendor("stripe"))
	require.NoError(t, err)
	assert.Equal(t, path, result.SourcePath)
	assert.Positive(t, result.SourceSize)
	assert.Contains(t, fileContent(t, result, "README.md"), path)

	_, err = GenerateWithOptions(context.Background(), WithFilePath(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrParse)
}

const collisionSpec = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /widgets/{id}:
    get:
      operationId: getWidget
      parameters: [{name: id, in: path, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
  /widgets/{id}/detail:
    get:
      operationId: widgetGet
      parameters: [{name: id, in: path, required: true, schema: {type: string}}]
      responses: {"204": {description: ok}}
components:
  schemas: {}
`

func TestGenerateNameCollision(t *testing.T) {
	result := generate(t, collisionSpec)
	src := fileContent(t, result, "widgets.go")
	assert.Contains(t, src, "func (s *Widgets) Get(ctx context.Context, id string) error {")
	assert.Contains(t, src, "func (s *Widgets) GetWidget(ctx context.Context, id string) error {")
	assert.Equal(t, 1, strings.Count(src, ") Get(ctx"))

	var collisions int
	for _, issue := range result.Issues {
		if issue.Code == issues.CodeNameCollision {
			collisions++
		}
	}
	assert.Equal(t, 1, collisions)
}

const headerPagedSpec = `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /items:
    get:
      operationId: listItems
      parameters:
        - {name: X-Tenant, in: header, required: true, schema: {type: string}}
        - {name: page_token, in: query, schema: {type: string}}
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  next_page_token: {type: string}
                  items: {type: array, items: {type: string}}
components:
  schemas: {}
`

func TestGenerateAllPagesSendsHeaders(t *testing.T) {
	result := generate(t, headerPagedSpec)
	src := fileContent(t, result, "items.go")
	assert.Contains(t, src, "func (s *Items) ListPage(ctx context.Context, pageToken *string, xTenant string) ([]string, error) {")
	assert.Contains(t, src, "func (s *Items) ListAll(ctx context.Context, xTenant string) ([]string, error) {")
	assert.Contains(t, src, `msg.SetHeader("X-Tenant", xTenant)`)
	assert.Contains(t, src, `return pagination.All[string](ctx, s.client.Pager(msg.Header), uri, pagination.PageToken{Collection: "items", Token: "next_page_token", Param: "page_token"})`)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		spec   string
		vendor string
		target error
	}{
		{
			name: "no tag",
			spec: `openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /{id}:
    get:
      responses: {"204": {description: ok}}
`,
			vendor: "generic",
			target: oaserrors.ErrSpec,
		},
		{
			name:   "pagination driver not permitted",
			spec:   headerPagedSpec,
			vendor: "stripe",
			target: oaserrors.ErrPagination,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadDoc(t, tt.spec)
			result, err := GenerateWithOptions(context.Background(), WithDocument(doc), WithVendor(tt.vendor))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestGenerateUnresolvedReferences(t *testing.T) {
	build := func(edit func(op *openapi3.Operation)) *loader.Document {
		spec := &openapi3.T{
			OpenAPI: "3.0.3",
			Info:    &openapi3.Info{Title: "t", Version: "1"},
			Paths:   openapi3.NewPaths(),
		}
		op := openapi3.NewOperation()
		op.OperationID = "listWidgets"
		op.Responses = openapi3.NewResponses()
		edit(op)
		spec.Paths.Set("/widgets", &openapi3.PathItem{Get: op})
		return loader.FromSpec(spec)
	}

	tests := []struct {
		name string
		doc  *loader.Document
	}{
		{
			name: "parameter",
			doc: build(func(op *openapi3.Operation) {
				op.Parameters = openapi3.Parameters{{Ref: "#/components/parameters/Missing"}}
			}),
		},
		{
			name: "response",
			doc: build(func(op *openapi3.Operation) {
				op.Responses.Set("200", &openapi3.ResponseRef{Ref: "#/components/responses/Missing"})
			}),
		},
		{
			name: "schema",
			doc: build(func(op *openapi3.Operation) {
				op.Responses.Set("200", &openapi3.ResponseRef{Value: openapi3.NewResponse().
					WithDescription("ok").
					WithJSONSchemaRef(&openapi3.SchemaRef{Ref: "#/components/schemas/Missing"})})
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GenerateWithOptions(context.Background(), WithDocument(tt.doc))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, oaserrors.ErrUnresolvedReference)
		})
	}
}

func TestGenerateFromSpecReadme(t *testing.T) {
	doc := loadDoc(t, collisionSpec)
	result, err := GenerateWithOptions(context.Background(), WithDocument(loader.FromSpec(doc.Spec)))
	require.NoError(t, err)
	readme := fileContent(t, result, "README.md")
	assert.NotContains(t, readme, "<memory>")
}

func TestGeneratorDefaults(t *testing.T) {
	g := New()
	assert.Equal(t, "api", g.PackageName)
	assert.True(t, g.IncludeInfo)
	assert.True(t, g.GenerateReadme)

	doc := loadDoc(t, collisionSpec)
	result, err := g.GenerateDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, DefaultVendor, result.Vendor)
	assert.Contains(t, fileContent(t, result, "client.go"), "package api")

	_, err = g.GenerateDocument(nil)
	assert.Error(t, err)
}

func TestWriteFiles(t *testing.T) {
	result := generate(t, widgetsSpec, WithVendor("stripe"))
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, result.WriteFiles(dir))

	for _, f := range result.Files {
		data, err := os.ReadFile(filepath.Join(dir, f.Name))
		require.NoError(t, err)
		assert.Equal(t, f.Content, data)
	}
}
