package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/restgen/loader"
)

// specInput represents the three ways an OAS document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OAS 3.x file on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch an OAS 3.x document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS 3.x document content (JSON or YAML)"`
}

// documentKey identifies the document behind s, or returns "" when the
// input should not be cached. File keys include the modification time so an
// edited file misses.
func documentKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	default:
		return ""
	}
}

// cacheTTL returns how long results derived from s stay fresh.
func (s specInput) cacheTTL() time.Duration {
	switch {
	case s.File != "":
		return cfg.CacheFileTTL
	case s.URL != "":
		return cfg.CacheURLTTL
	default:
		return cfg.CacheContentTTL
	}
}

// validate checks that exactly one usable input kind is set.
func (s specInput) validate() error {
	count := 0
	for _, v := range []string{s.File, s.URL, s.Content} {
		if v != "" {
			count++
		}
	}
	if count != 1 {
		return fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}
	if s.File == loader.Stdin {
		return fmt.Errorf("file %q is not supported; stdin carries the MCP transport", s.File)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RESTGEN_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}
	return nil
}

// resolve loads the document from whichever input was provided.
func (s specInput) resolve(ctx context.Context) (*loader.Document, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	switch {
	case s.File != "":
		return loader.Load(ctx, s.File)
	case s.URL != "":
		var opts []loader.Option
		if !cfg.AllowPrivateIPs {
			opts = append(opts, loader.WithHTTPClient(newSafeHTTPClient()))
		}
		return loader.Load(ctx, s.URL, opts...)
	default:
		return loader.LoadData(ctx, []byte(s.Content))
	}
}
