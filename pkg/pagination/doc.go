// Package pagination provides the page arithmetic and the bulk fetcher used
// by the catalog list view.
//
// Window math follows a fixed-width page strip around the current page:
//
//	w := pagination.Cut(12, 5, 6) // {Start: 4, End: 9}
//	for _, p := range w.Pages() { ... } // 4 5 6 7 8
//
// Slice cuts a page out of an in-memory collection, and Build assembles the
// complete navigation model (First/Prev/pages/Next/Last) for rendering.
//
// BatchFetcher loads a contiguous ID range in parallel with bounded
// concurrency. A batch is all-or-nothing: the first failing item cancels the
// remaining fetches and no partial results are returned.
//
//	bf := pagination.NewBatchFetcher[catalog.Summary](apiClient, pagination.DefaultConfig())
//	items, err := bf.FetchRange(ctx, 1, 151)
package pagination
