// Package naming converts OpenAPI names into generated identifiers.
//
// Snake case is used for operation ids, tags and parameter identifiers;
// Pascal and camel case for the Go spelling of the same names. Plural and
// singular forms back tag normalization.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
