// Package restgen generates Go REST client SDKs from OpenAPI 3 documents.
//
// The generator reads one document per vendor and writes one file per
// resource group (tag). Each operation becomes a method on the group's type.
// Listable operations whose response is a recognized pagination envelope get
// two methods: a single-page method and an all-pages method that walks the
// collection with one of five pagination drivers.
//
// # Packages
//
//   - [github.com/erraggy/restgen/loader] reads a document into an ordered operation list.
//   - [github.com/erraggy/restgen/typespace] maps schemas to Go types.
//   - [github.com/erraggy/restgen/generator] classifies, plans and emits the client code.
//   - [github.com/erraggy/restgen/pagination] is the runtime used by all-pages methods.
//   - [github.com/erraggy/restgen/restclient] is the HTTP client embedded by generated SDKs.
//   - [github.com/erraggy/restgen/oaserrors] defines the structured errors.
//   - internal/mcpserver serves the generator as MCP tools for "restgen mcp".
//
// # Quick start
//
//	result, err := generator.GenerateWithOptions(ctx,
//	    generator.WithFilePath("stripe.yaml"),
//	    generator.WithVendor("stripe"),
//	    generator.WithPackageName("stripe"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("./stripe"); err != nil {
//	    log.Fatal(err)
//	}
//
// The restgen command wraps the same API:
//
//	restgen generate --vendor stripe --package stripe -o ./stripe stripe.yaml
package restgen
