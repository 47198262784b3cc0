// Package restclient is the HTTP client embedded by generated SDKs.
//
// Generated methods build a request URI, encode an optional [Message] body
// and call one of [Client.Get], [Client.Post], [Client.Put], [Client.Patch]
// or [Client.Delete]. Responses with status 400 or above become [*Error]
// values; [Decode] turns a successful body into the method's return type.
//
// [Client] implements pagination.Fetcher, so all-pages methods hand it
// straight to the pagination package. [GetAllPages] walks a bare-array
// collection through Link response headers.
package restclient
