package pagination

import "strconv"

// Control is a single navigation button (First, Prev, a page number, Next, Last).
type Control struct {
	Label    string `json:"label"`
	Page     int    `json:"page"`
	Active   bool   `json:"active,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Nav is the render model for pagination controls.
type Nav struct {
	CurrentPage int       `json:"current_page"`
	PagesCount  int       `json:"pages_count"`
	Total       int       `json:"total"`
	Limit       int       `json:"limit"`
	Window      Window    `json:"window"`
	First       Control   `json:"first"`
	Prev        Control   `json:"prev"`
	Pages       []Control `json:"pages"`
	Next        Control   `json:"next"`
	Last        Control   `json:"last"`
}

// ClampPage keeps page inside [1, pagesCount]. With no pages it returns 1.
func ClampPage(page, pagesCount int) int {
	switch {
	case page < 1 || pagesCount <= 0:
		return 1
	case page > pagesCount:
		return pagesCount
	default:
		return page
	}
}

// Build assembles the navigation model for currentPage over total items
// split into pages of limit items, showing at most cutCount page links.
// A non-positive cutCount falls back to DefaultCutCount.
func Build(currentPage, total, limit, cutCount int) Nav {
	if cutCount <= 0 {
		cutCount = DefaultCutCount
	}

	pagesCount := PageCount(total, limit)
	window := Cut(pagesCount, cutCount, currentPage)

	isFirst := currentPage <= 1
	isLast := currentPage >= pagesCount

	prev := currentPage - 1
	if prev < 1 {
		prev = 1
	}
	next := currentPage + 1
	if next > pagesCount {
		next = pagesCount
	}

	nav := Nav{
		CurrentPage: currentPage,
		PagesCount:  pagesCount,
		Total:       total,
		Limit:       limit,
		Window:      window,
		First:       Control{Label: "First", Page: 1, Disabled: isFirst},
		Prev:        Control{Label: "Prev", Page: prev, Disabled: isFirst},
		Next:        Control{Label: "Next", Page: next, Disabled: isLast},
		Last:        Control{Label: "Last", Page: pagesCount, Disabled: isLast},
	}

	for _, p := range window.Pages() {
		nav.Pages = append(nav.Pages, Control{
			Label:  strconv.Itoa(p),
			Page:   p,
			Active: p == currentPage,
		})
	}

	return nav
}
