package pagination

// DefaultCutCount is the number of page links shown around the current page.
const DefaultCutCount = 5

// Window is a half-open range [Start, End) of page numbers to display.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pages in the window.
func (w Window) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// Pages expands the window into the page numbers it contains.
func (w Window) Pages() []int {
	pages := make([]int, 0, w.Len())
	for p := w.Start; p < w.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Contains reports whether page lies inside the window.
func (w Window) Contains(page int) bool {
	return page >= w.Start && page < w.End
}

// Cut computes which page numbers to display for currentPage when there are
// pagesCount pages and at most pagesCutCount links fit in the strip.
//
// Near the start the strip is pinned to page 1, near the end to the last
// page, otherwise it is centred on currentPage (one page toward the end for
// even widths).
func Cut(pagesCount, pagesCutCount, currentPage int) Window {
	ceiling := (pagesCutCount + 1) / 2
	floor := pagesCutCount / 2

	if pagesCount <= pagesCutCount {
		if pagesCount < 0 {
			pagesCount = 0
		}
		return Window{Start: 1, End: pagesCount + 1}
	}

	if currentPage <= ceiling {
		return Window{Start: 1, End: pagesCutCount + 1}
	}

	if currentPage+floor >= pagesCount {
		return Window{Start: pagesCount - pagesCutCount + 1, End: pagesCount + 1}
	}

	return Window{Start: currentPage - ceiling + 1, End: currentPage + floor + 1}
}

// PageCount returns the number of pages needed for total items of size limit.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Slice returns the items shown on page (1-based) for the given page size:
// items[(page-1)*size : page*size], clipped to the collection.
func Slice[T any](items []T, page, size int) []T {
	if page < 1 || size <= 0 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
