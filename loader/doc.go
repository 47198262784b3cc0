// Package loader reads OpenAPI 3 documents into an ordered operation list.
//
// Parsing is delegated to kin-openapi. Because kin-openapi keeps responses
// in a map, the loader recovers the declaration order of response status
// keys from the raw document so callers can honour "first declared" rules.
//
// # Sources
//
// [Load] accepts a file path, an http(s) URL, or "-" for standard input:
//
//	doc, err := loader.Load(ctx, "stripe.yaml")
//	for _, op := range doc.Operations {
//	    fmt.Println(op.Method, op.Path, op.ResponseOrder)
//	}
//
// [LoadData] parses an in-memory document.
//
// Operations are listed with paths sorted lexically and verbs in the fixed
// order get, put, post, delete, options, head, patch, trace, so repeated
// loads of the same document always produce the same sequence.
package loader
