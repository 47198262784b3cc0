// Package pagination walks paginated collections for generated clients.
//
// Every all-pages method emitted by the generator calls [All] with a
// [Fetcher] (the SDK's restclient.Client) and one [Strategy]. The five
// strategies cover the envelope conventions the generator recognizes:
//
//   - [LinkHeader]: bare arrays, next page from the Link response header.
//   - [HasMore]: {data, has_more}; cursor is the id of the last item, sent
//     as starting_after. A 404 ends the walk.
//   - [PageToken]: {items, nextPageToken} or {records, next_page_token}.
//     Stops on an empty or repeated token.
//   - [NextLink]: {data, page: {next}}; page.next is a full URL. An error
//     reporting "404 Not Found" ends the walk.
//   - [PageCount]: {data, page: {current_page, total_pages}} with a fixed
//     page size.
//
// The loop is strictly sequential: one request at a time, items kept in
// page order. A misbehaving backend is bounded by [WithMaxPages].
package pagination
