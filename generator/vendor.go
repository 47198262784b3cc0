package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/restgen/oaserrors"
	"github.com/erraggy/restgen/pagination"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// DefaultVendor is the profile used when none is selected.
const DefaultVendor = "generic"

const (
	defaultTagExtension       = "x-tags"
	defaultReentrantExtension = "x-restgen-reentrant"
)

// versionSegment matches generic version prefixes such as "v1" or "v2beta".
var versionSegment = regexp.MustCompile(`^v\d+([a-z]+\d*)?$`)

// VendorProfile holds every vendor-specific rule the generator applies.
// Profiles are plain YAML documents; the built-in ones are embedded and
// custom ones load through LoadVendorProfile.
type VendorProfile struct {
	// Name identifies the vendor in messages and errors.
	Name string `yaml:"name"`
	// VersionPrefixes are path segments skipped when deriving a tag, in
	// addition to the generic "v1" style prefixes.
	VersionPrefixes []string `yaml:"version_prefixes,omitempty"`
	// TagExtension is the operation extension holding alternate tags.
	TagExtension string `yaml:"tag_extension,omitempty"`
	// TagRenames are literal tag replacements applied after derivation.
	TagRenames map[string]string `yaml:"tag_renames,omitempty"`
	// TagPrefixTrim are vendor names removed from the start of tags.
	TagPrefixTrim []string `yaml:"tag_prefix_trim,omitempty"`
	// NoiseParameters are always dropped from signatures.
	NoiseParameters []string `yaml:"noise_parameters,omitempty"`
	// PaginationParameters are dropped from all-pages signatures in
	// addition to the fixed pagination list.
	PaginationParameters []string `yaml:"pagination_parameters,omitempty"`
	// Drivers are the pagination drivers this vendor may use.
	Drivers []pagination.Driver `yaml:"drivers"`
	// LinkHeaderArrays marks bare array responses as paginated through Link headers.
	LinkHeaderArrays bool `yaml:"link_header_arrays,omitempty"`
	// PageTokenParam overrides the query parameter carrying page tokens.
	PageTokenParam string `yaml:"page_token_param,omitempty"`
	// PageSize overrides the page size of the page-count driver.
	PageSize int `yaml:"page_size,omitempty"`
	// NameRewrites are literal function name replacements.
	NameRewrites map[string]string `yaml:"name_rewrites,omitempty"`
	// ReentrantOperations are snake_case operation ids that must skip the
	// client's request editors.
	ReentrantOperations []string `yaml:"reentrant_operations,omitempty"`
	// ReentrantExtension is the boolean operation extension with the same effect.
	ReentrantExtension string `yaml:"reentrant_extension,omitempty"`
}

// VendorNames lists the built-in profiles.
func VendorNames() []string {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// BuiltinVendor returns a copy of the named built-in profile.
func BuiltinVendor(name string) (*VendorProfile, error) {
	data, err := profileFS.ReadFile(path.Join("profiles", strings.ToLower(name)+".yaml"))
	if err != nil {
		return nil, &oaserrors.ConfigError{
			Option:  "vendor",
			Value:   name,
			Message: fmt.Sprintf("unknown vendor; built-in vendors are %s", strings.Join(VendorNames(), ", ")),
		}
	}
	return ParseVendorProfile(data)
}

// LoadVendorProfile reads a profile from a YAML file.
func LoadVendorProfile(file string) (*VendorProfile, error) {
	data, err := os.ReadFile(file) //nolint:gosec // user-provided path
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "vendor profile", Value: file, Message: "cannot read profile", Cause: err}
	}
	p, err := ParseVendorProfile(data)
	if err != nil {
		return nil, fmt.Errorf("generator: loading %s: %w", file, err)
	}
	return p, nil
}

// ParseVendorProfile decodes and validates a YAML profile.
func ParseVendorProfile(data []byte) (*VendorProfile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	p := &VendorProfile{}
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, &oaserrors.ConfigError{Option: "vendor profile", Message: "invalid YAML", Cause: err}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.applyDefaults()
	return p, nil
}

func (p *VendorProfile) validate() error {
	if p.Name == "" {
		return &oaserrors.ConfigError{Option: "name", Message: "vendor profile needs a name"}
	}
	for _, d := range p.Drivers {
		if !d.Valid() {
			return &oaserrors.ConfigError{
				Option:  "drivers",
				Value:   string(d),
				Message: "unknown pagination driver",
			}
		}
	}
	if p.PageSize < 0 {
		return &oaserrors.ConfigError{Option: "page_size", Value: fmt.Sprint(p.PageSize), Message: "page size cannot be negative"}
	}
	return nil
}

func (p *VendorProfile) applyDefaults() {
	if p.TagExtension == "" {
		p.TagExtension = defaultTagExtension
	}
	if p.ReentrantExtension == "" {
		p.ReentrantExtension = defaultReentrantExtension
	}
}

// Allows reports whether the profile permits driver d.
func (p *VendorProfile) Allows(d pagination.Driver) bool {
	for _, allowed := range p.Drivers {
		if allowed == d {
			return true
		}
	}
	return false
}

// isVersionSegment reports whether a path segment is a version prefix.
func (p *VendorProfile) isVersionSegment(segment string) bool {
	if versionSegment.MatchString(segment) {
		return true
	}
	for _, prefix := range p.VersionPrefixes {
		if strings.EqualFold(prefix, segment) {
			return true
		}
	}
	return false
}

// isNoise reports whether a parameter is on the noise list, by wire name
// or identifier.
func (p *VendorProfile) isNoise(name, ident string) bool {
	return containsFold(p.NoiseParameters, name) || containsFold(p.NoiseParameters, ident)
}

func (p *VendorProfile) isReentrant(operationID string) bool {
	for _, id := range p.ReentrantOperations {
		if id == operationID {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
