package generator

import (
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/erraggy/restgen"
)

// buildDefaultUserAgent generates the default User-Agent string for generated clients.
// Format: restgen/{version}/generated/{title}
// If title is empty, it uses "API Client" as a fallback.
func buildDefaultUserAgent(title string) string {
	if title == "" {
		title = "API Client"
	}
	return fmt.Sprintf("restgen/%s/generated/%s", restgen.Version(), title)
}

// formatAndFixImports formats Go source code and removes unused imports.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

// buildConstrained are file name suffixes the go tool treats as build
// constraints.
var buildConstrained = map[string]bool{
	"test": true, "aix": true, "android": true, "darwin": true, "dragonfly": true,
	"freebsd": true, "hurd": true, "illumos": true, "ios": true, "js": true,
	"linux": true, "nacl": true, "netbsd": true, "openbsd": true, "plan9": true,
	"solaris": true, "wasip1": true, "windows": true, "zos": true,
	"386": true, "amd64": true, "arm": true, "arm64": true, "loong64": true,
	"mips": true, "mips64": true, "mips64le": true, "mipsle": true, "ppc64": true,
	"ppc64le": true, "riscv64": true, "s390x": true, "wasm": true,
}

// fileNameFor returns a unique Go file name for tag.
func fileNameFor(tag string, taken map[string]bool) string {
	base := tag
	if i := strings.LastIndexByte(base, '_'); i >= 0 && buildConstrained[base[i+1:]] {
		base += "_api"
	}
	name := base + ".go"
	if taken[name] {
		name = base + "_api.go"
	}
	for n := 2; taken[name]; n++ {
		name = fmt.Sprintf("%s_api%d.go", base, n)
	}
	taken[name] = true
	return name
}
