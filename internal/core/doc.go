// Package core provides the table logic for the standards explorer.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the export CLI, and tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Dataset: an immutable, ordered sequence of [StandardRecord] with unique
//     ids. Loaded once at startup (see package dataset) and never mutated.
//   - Filter engine: [Filter] derives the visible rows from the dataset, a
//     free-text query, and an optional facet value. Rows are recomputed on
//     every change; there is no cache or index.
//   - Matchers: the free-text test is a pluggable [Matcher] registered by
//     name. "substring" (default) and "words" are built in.
//   - Views: a [View] holds one page load's query, facet, selection, and theme
//     mode. Views live in a [ViewStore] and expire when idle.
//   - Export: [Export] resolves the selection against the full dataset and
//     hands a CSV document to a [FileExporter].
//
// # Filtering
//
// A record is visible when both hold:
//
//  1. the facet is empty or equals the record's jurisdiction country;
//  2. the matcher accepts the record for the query (any attribute contains the
//     query, case-insensitively, for the default matcher).
//
// Dataset order is preserved.
//
// # Selection
//
// A [Selection] mirrors the grid's checked rows and is replaced wholesale on
// every selection event. Changing the query or facet never clears it, so an
// export may include rows the current filter hides.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference, e.g. SEL001
// for an export with nothing selected.
package core
