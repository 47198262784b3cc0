// Package typespace maps JSON schema fragments to Go types.
//
// A [TypeSpace] is built once per generation run over a document's
// components.schemas. [TypeSpace.Select] gets or creates the type for a
// schema fragment and returns an opaque [TypeID]; [TypeSpace.Render] spells
// that type in Go. Objects, string enums and one-of unions become named
// types; primitives, arrays and maps are structural and render inline.
//
// TypeID(0) is a sentinel meaning "no type" (the unit response). It is
// never a valid lookup key: [TypeSpace.Type] reports it as not found and
// [TypeSpace.Render] spells it as the empty string.
//
// [TypeSpace.Declarations] renders Go source for every named type.
package typespace
