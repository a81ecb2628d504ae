// Package pagination computes which page links to render for a paginated
// listing and the URLs they point to. Everything here is a pure function of
// the current URL, the total item count and the page size.
package pagination

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/GoogleChrome/webstatus-dashboard/internal/httpx"
)

const (
	// ParamStart is the query parameter carrying the current item offset.
	ParamStart = "start"
	// ParamPageSize is the query parameter carrying the page size.
	ParamPageSize = "num"

	// DefaultPageSize is used when the URL carries no usable page size.
	DefaultPageSize = 25

	// maxFlatPages is the largest page count rendered without elision.
	maxFlatPages = 10
	// windowRadius is how many pages are shown either side of the current one.
	windowRadius = 4

	// TotalUnknown marks a window whose total count has not loaded yet.
	TotalUnknown = -1
)

// PageSizePresets are the page sizes offered by the page-size selector.
var PageSizePresets = []int{25, 50, 100}

// Window is the pagination state derived from the current URL. It is
// recomputed on every render and never persisted.
type Window struct {
	Start      int
	PageSize   int
	TotalCount int
}

// FromURL derives a window from the URL's start/num parameters.
// totalCount may be TotalUnknown while the listing is still loading.
func FromURL(u *url.URL, totalCount int) Window {
	start := httpx.QueryInt(u, ParamStart, 0)
	if start < 0 {
		start = 0
	}
	size := httpx.QueryInt(u, ParamPageSize, DefaultPageSize)
	if size < 1 {
		size = DefaultPageSize
	}
	return Window{Start: start, PageSize: size, TotalCount: totalCount}
}

// CurrentPage returns the zero-based page index of the current offset.
func (w Window) CurrentPage() int {
	return w.Start / w.PageSize
}

// NumPages returns ceil(totalCount / pageSize), or 0 while the total is
// unknown.
func (w Window) NumPages() int {
	if w.TotalCount <= 0 {
		return 0
	}
	return (w.TotalCount + w.PageSize - 1) / w.PageSize
}

// PageSizeChoices returns the preset page sizes plus the window's current
// custom value, sorted ascending.
func (w Window) PageSizeChoices() []int {
	choices := append([]int(nil), PageSizePresets...)
	custom := true
	for _, preset := range choices {
		if preset == w.PageSize {
			custom = false
			break
		}
	}
	if custom {
		choices = append(choices, w.PageSize)
		sort.Ints(choices)
	}
	return choices
}

// Item is one entry of the rendered page strip: either a numbered page link
// or an ellipsis marker standing in for an elided run of pages.
type Item struct {
	Page     int    `json:"page"`
	URL      string `json:"url,omitempty"`
	Current  bool   `json:"current,omitempty"`
	Ellipsis bool   `json:"ellipsis,omitempty"`
}

// Pages computes the visible page strip for the window. The first and last
// pages are always present. Up to maxFlatPages pages render flat; beyond
// that a sliding window of ±windowRadius around the current page is shown,
// with ellipsis markers wherever pages are elided.
func (w Window) Pages(u *url.URL) []Item {
	numPages := w.NumPages()
	if numPages == 0 {
		return nil
	}
	current := w.CurrentPage()

	link := func(page int) Item {
		return Item{
			Page:    page,
			URL:     URLForOffset(u, page*w.PageSize, w.PageSize),
			Current: page == current,
		}
	}

	if numPages <= maxFlatPages {
		items := make([]Item, 0, numPages)
		for page := 0; page < numPages; page++ {
			items = append(items, link(page))
		}
		return items
	}

	lo := current - windowRadius
	hi := current + windowRadius
	if lo < 0 {
		lo = 0
	}
	if hi > numPages-1 {
		hi = numPages - 1
	}

	var items []Item
	if lo > 0 {
		items = append(items, link(0))
		if lo > 1 {
			items = append(items, Item{Ellipsis: true})
		}
	}
	for page := lo; page <= hi; page++ {
		items = append(items, link(page))
	}
	if hi < numPages-1 {
		if hi < numPages-2 {
			items = append(items, Item{Ellipsis: true})
		}
		items = append(items, link(numPages-1))
	}
	return items
}

// URLForOffset rewrites only the pagination parameters of u, preserving all
// other query state. A zero offset and the default page size render as
// parameter-free URLs.
func URLForOffset(u *url.URL, start, pageSize int) string {
	set := map[string]string{}
	var del []string
	if start > 0 {
		set[ParamStart] = strconv.Itoa(start)
	} else {
		del = append(del, ParamStart)
	}
	if pageSize != DefaultPageSize {
		set[ParamPageSize] = strconv.Itoa(pageSize)
	} else {
		del = append(del, ParamPageSize)
	}
	return httpx.WithQuery(u, set, del...).String()
}

// URLForRelativeOffset returns the URL for navigating delta items from the
// current offset, or ok=false when the move is disabled. A move is disabled
// when it would land more than one page width before the start, or at or
// past the total count. The resulting offset never goes below zero.
func (w Window) URLForRelativeOffset(u *url.URL, delta int) (link string, ok bool) {
	if w.TotalCount < 0 {
		return "", false
	}
	next := w.Start + delta
	if next <= -w.PageSize || next >= w.TotalCount {
		return "", false
	}
	if next < 0 {
		next = 0
	}
	return URLForOffset(u, next, w.PageSize), true
}
