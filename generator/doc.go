// Package generator turns an OpenAPI 3 document into a Go client SDK
// package built on the restclient and pagination runtime packages.
//
// Each operation is classified into a resource group (tag) with a function
// name, its parameters are planned into a deterministic signature, and its
// first 2xx response is inspected for one of the recognized pagination
// envelopes. Paginated GET operations get two methods: one returning a
// single page and an all-pages sibling that walks every page with the
// pagination driver the vendor profile permits.
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(ctx,
//		generator.WithFilePath("stripe.yaml"),
//		generator.WithPackageName("stripe"),
//		generator.WithVendor("stripe"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("./stripe"); err != nil {
//		log.Fatal(err)
//	}
//
// Or use a reusable Generator instance:
//
//	g := generator.New()
//	g.PackageName = "widgets"
//	result, err := g.Generate(ctx, "widgets.yaml")
//
// # Vendor Profiles
//
// Vendor-specific rules (version prefixes, tag renames, noise parameters,
// permitted pagination drivers) live in YAML profiles. Built-in profiles
// are listed by VendorNames; custom ones load with LoadVendorProfile.
//
// # Generated Files
//
//   - client.go: Client, NewClient, DefaultHost and one accessor per tag
//   - types.go: declarations for every named schema type
//   - <tag>.go: the resource type and its methods
//   - README.md: overview and regeneration command (optional)
//
// Defects in the document (unresolved references, operations without a
// derivable tag, pagination envelopes no permitted driver can walk) abort
// the run. Recoverable oddities are reported as GenerateIssue values.
package generator
