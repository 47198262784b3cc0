// Package oaserrors provides structured error types for restgen.
//
// Import path: github.com/erraggy/restgen/oaserrors
//
// Every fatal condition of a generation run is reported through one of these
// types so callers can branch with [errors.Is] and [errors.As]:
//
//   - [ParseError]: the OpenAPI document could not be read or decoded
//   - [ReferenceError]: a $ref (parameter, schema, response) has no target
//   - [SpecError]: the document is readable but cannot be generated from,
//     e.g. an operation whose tag cannot be derived
//   - [PaginationError]: a paginated response matches no permitted driver
//   - [ConfigError]: invalid options or vendor profiles
//
// # Sentinel Errors
//
//   - [ErrParse]: matches any [ParseError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrUnresolvedReference]: matches a [ReferenceError] whose target is missing
//   - [ErrSpec]: matches any [SpecError]
//   - [ErrPagination]: matches any [PaginationError]
//   - [ErrConfig]: matches any [ConfigError]
//
// Example:
//
//	result, err := generator.GenerateWithOptions(generator.WithFilePath("stripe.yaml"))
//	var pagErr *oaserrors.PaginationError
//	if errors.As(err, &pagErr) {
//	    fmt.Println("add a driver for", pagErr.Vendor, pagErr.Property)
//	}
package oaserrors
