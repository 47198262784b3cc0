package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/restgen/oaserrors"
)

const widgetsSpec = `openapi: 3.0.3
info:
  title: Widgets
  version: 1.0.0
paths:
  /widgets/{id}:
    delete:
      responses:
        "204":
          description: deleted
    get:
      responses:
        "404":
          description: missing
        "200":
          description: ok
        default:
          description: error
  /widgets:
    post:
      responses:
        "201":
          description: created
    get:
      responses:
        "200":
          description: ok
`

func TestLoadDataOrdersOperations(t *testing.T) {
	doc, err := LoadData(context.Background(), []byte(widgetsSpec))
	require.NoError(t, err)

	var got []string
	for _, op := range doc.Operations {
		got = append(got, op.String())
	}
	assert.Equal(t, []string{
		"GET /widgets",
		"POST /widgets",
		"GET /widgets/{id}",
		"DELETE /widgets/{id}",
	}, got)
	assert.Equal(t, int64(len(widgetsSpec)), doc.SourceSize)
	assert.Equal(t, "Widgets", doc.Spec.Info.Title)
}

func TestLoadDataResponseOrder(t *testing.T) {
	doc, err := LoadData(context.Background(), []byte(widgetsSpec))
	require.NoError(t, err)

	op := findOperation(t, doc, "GET", "/widgets/{id}")
	assert.Equal(t, []string{"404", "200", "default"}, op.ResponseOrder)
	assert.Equal(t, []string{"404", "200", "default"}, op.Responses())
}

func TestLoadDataJSON(t *testing.T) {
	const spec = `{
  "openapi": "3.0.0",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/things": {
      "get": {
        "responses": {
          "500": {"description": "boom"},
          "200": {"description": "ok"}
        }
      }
    }
  }
}`
	doc, err := LoadData(context.Background(), []byte(spec))
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)
	assert.Equal(t, []string{"500", "200"}, doc.Operations[0].ResponseOrder)
}

func TestOperationResponsesFallback(t *testing.T) {
	doc, err := LoadData(context.Background(), []byte(widgetsSpec))
	require.NoError(t, err)

	op := findOperation(t, doc, "GET", "/widgets/{id}")
	op.ResponseOrder = nil
	assert.Equal(t, []string{"200", "404", "default"}, op.Responses())
}

func TestFromSpec(t *testing.T) {
	parsed, err := LoadData(context.Background(), []byte(widgetsSpec))
	require.NoError(t, err)

	doc := FromSpec(parsed.Spec)
	require.Len(t, doc.Operations, 4)
	assert.Equal(t, "GET /widgets", doc.Operations[0].String())
	assert.Nil(t, doc.Operations[0].ResponseOrder)
	assert.Equal(t, []string{"200", "404", "default"}, findOperation(t, doc, "GET", "/widgets/{id}").Responses())
}

func TestLoadDataErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{name: "not a document", data: "::: not yaml", message: "cannot decode document"},
		{name: "swagger 2", data: "swagger: \"2.0\"\ninfo: {title: t, version: \"1\"}\npaths: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadData(context.Background(), []byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrParse)
			if tt.message != "" {
				assert.Contains(t, err.Error(), tt.message)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(widgetsSpec), 0o600))

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.SourcePath)
	assert.Len(t, doc.Operations, 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var parseErr *oaserrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "cannot open document", parseErr.Message)
}

func TestLoadURL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(widgetsSpec))
	}))
	defer srv.Close()

	doc, err := Load(context.Background(), srv.URL+"/openapi.yaml", WithUserAgent("restgen-test"))
	require.NoError(t, err)
	assert.Len(t, doc.Operations, 4)
	assert.Equal(t, "restgen-test", gotUA)

	_, err = Load(context.Background(), srv.URL+"/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoadStdin(t *testing.T) {
	doc, err := Load(context.Background(), Stdin, WithStdin(strings.NewReader(widgetsSpec)))
	require.NoError(t, err)
	assert.Len(t, doc.Operations, 4)
}

func TestLoadMaxSize(t *testing.T) {
	_, err := Load(context.Background(), Stdin,
		WithStdin(strings.NewReader(widgetsSpec)),
		WithMaxSize(16))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum size")
}

func findOperation(t *testing.T, doc *Document, method, path string) *Operation {
	t.Helper()
	for _, op := range doc.Operations {
		if op.Method == method && op.Path == path {
			return op
		}
	}
	t.Fatalf("operation %s %s not found", method, path)
	return nil
}
