package pagination

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		name         string
		rawURL       string
		expectedWin  Window
		expectedPage int
	}{
		{
			name:         "defaults",
			rawURL:       "/features",
			expectedWin:  Window{Start: 0, PageSize: 25, TotalCount: 100},
			expectedPage: 0,
		},
		{
			name:         "explicit start and num",
			rawURL:       "/features?start=50&num=25",
			expectedWin:  Window{Start: 50, PageSize: 25, TotalCount: 100},
			expectedPage: 2,
		},
		{
			name:         "negative start clamps to zero",
			rawURL:       "/features?start=-10",
			expectedWin:  Window{Start: 0, PageSize: 25, TotalCount: 100},
			expectedPage: 0,
		},
		{
			name:         "bogus num falls back to default",
			rawURL:       "/features?num=0",
			expectedWin:  Window{Start: 0, PageSize: 25, TotalCount: 100},
			expectedPage: 0,
		},
		{
			name:         "custom page size",
			rawURL:       "/features?start=120&num=40",
			expectedWin:  Window{Start: 120, PageSize: 40, TotalCount: 100},
			expectedPage: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := FromURL(listURL(t, tt.rawURL), 100)
			assert.Equal(t, tt.expectedWin, w)
			assert.Equal(t, tt.expectedPage, w.CurrentPage())
		})
	}
}

func TestNumPagesIsCeiling(t *testing.T) {
	// numPages = ceil(totalCount/pageSize) for all non-negative totals and
	// positive page sizes.
	for totalCount := 0; totalCount <= 130; totalCount += 7 {
		for _, pageSize := range []int{1, 3, 25, 50, 100} {
			w := Window{Start: 0, PageSize: pageSize, TotalCount: totalCount}
			expected := (totalCount + pageSize - 1) / pageSize
			assert.Equal(t, expected, w.NumPages(),
				"totalCount=%d pageSize=%d", totalCount, pageSize)
		}
	}
}

func TestNumPagesUnknownTotal(t *testing.T) {
	w := Window{Start: 0, PageSize: 25, TotalCount: TotalUnknown}
	assert.Equal(t, 0, w.NumPages())
	assert.Nil(t, w.Pages(listURL(t, "/features")))
}

func TestPagesFlatWhenTenOrFewer(t *testing.T) {
	u := listURL(t, "/features?q=grid")

	for _, numPages := range []int{1, 2, 9, 10} {
		w := Window{Start: 0, PageSize: 25, TotalCount: numPages * 25}
		items := w.Pages(u)

		require.Len(t, items, numPages, "numPages=%d", numPages)
		for i, item := range items {
			assert.False(t, item.Ellipsis)
			assert.Equal(t, i, item.Page)
		}
	}
}

func TestPagesSlidingWindow(t *testing.T) {
	// 25 pages of 25 items, current page 12: first, ellipsis, 8..16,
	// ellipsis, last.
	u := listURL(t, "/features?q=grid&start=300")
	w := FromURL(u, 25*25)
	require.Equal(t, 12, w.CurrentPage())

	items := w.Pages(u)

	expectedPages := []int{0, -1, 8, 9, 10, 11, 12, 13, 14, 15, 16, -1, 24}
	require.Len(t, items, len(expectedPages))
	for i, expected := range expectedPages {
		if expected == -1 {
			assert.True(t, items[i].Ellipsis, "item %d should be ellipsis", i)
			continue
		}
		assert.False(t, items[i].Ellipsis)
		assert.Equal(t, expected, items[i].Page)
		assert.Equal(t, expected == 12, items[i].Current)
	}
}

func TestPagesFirstAndLastAlwaysPresent(t *testing.T) {
	u := listURL(t, "/features")
	for numPages := 1; numPages <= 40; numPages++ {
		for current := 0; current < numPages; current++ {
			w := Window{Start: current * 25, PageSize: 25, TotalCount: numPages * 25}
			items := w.Pages(u)

			require.NotEmpty(t, items)
			assert.Equal(t, 0, items[0].Page)
			assert.False(t, items[0].Ellipsis)
			last := items[len(items)-1]
			assert.Equal(t, numPages-1, last.Page)
			assert.False(t, last.Ellipsis)
		}
	}
}

func TestPagesNearEdgesElideOneSideOnly(t *testing.T) {
	u := listURL(t, "/features")
	w := Window{Start: 0, PageSize: 25, TotalCount: 25 * 25}

	items := w.Pages(u)

	// current page 0: window 0..4, single trailing ellipsis before the last.
	require.Len(t, items, 7)
	for i := 0; i <= 4; i++ {
		assert.Equal(t, i, items[i].Page)
	}
	assert.True(t, items[5].Ellipsis)
	assert.Equal(t, 24, items[6].Page)
}

func TestPagesPreserveFilterState(t *testing.T) {
	u := listURL(t, "/features?q=grid&sort=name_asc&start=300")
	w := FromURL(u, 25*25)

	for _, item := range w.Pages(u) {
		if item.Ellipsis {
			continue
		}
		link := listURL(t, item.URL)
		assert.Equal(t, "grid", link.Query().Get("q"))
		assert.Equal(t, "name_asc", link.Query().Get("sort"))
	}
}

func TestURLForOffset(t *testing.T) {
	u := listURL(t, "/features?q=grid&start=25&num=50")

	link := listURL(t, URLForOffset(u, 75, 50))
	assert.Equal(t, "75", link.Query().Get("start"))
	assert.Equal(t, "50", link.Query().Get("num"))
	assert.Equal(t, "grid", link.Query().Get("q"))

	// zero offset and default page size drop their parameters
	link = listURL(t, URLForOffset(u, 0, DefaultPageSize))
	assert.False(t, link.Query().Has("start"))
	assert.False(t, link.Query().Has("num"))
	assert.Equal(t, "grid", link.Query().Get("q"))
}

func TestURLForRelativeOffset(t *testing.T) {
	u := listURL(t, "/features?q=grid")

	tests := []struct {
		name          string
		window        Window
		delta         int
		expectedOK    bool
		expectedStart string
	}{
		{
			name:          "next from first page",
			window:        Window{Start: 0, PageSize: 25, TotalCount: 100},
			delta:         25,
			expectedOK:    true,
			expectedStart: "25",
		},
		{
			name:          "previous from second page lands on zero",
			window:        Window{Start: 25, PageSize: 25, TotalCount: 100},
			delta:         -25,
			expectedOK:    true,
			expectedStart: "",
		},
		{
			name:          "previous clamps negative offset to zero",
			window:        Window{Start: 10, PageSize: 25, TotalCount: 100},
			delta:         -25,
			expectedOK:    true,
			expectedStart: "",
		},
		{
			name:       "previous disabled a full page before the start",
			window:     Window{Start: 0, PageSize: 25, TotalCount: 100},
			delta:      -25,
			expectedOK: false,
		},
		{
			name:       "next disabled at the total count",
			window:     Window{Start: 75, PageSize: 25, TotalCount: 100},
			delta:      25,
			expectedOK: false,
		},
		{
			name:       "next disabled past the total count",
			window:     Window{Start: 75, PageSize: 25, TotalCount: 90},
			delta:      25,
			expectedOK: false,
		},
		{
			name:       "unknown total disables navigation",
			window:     Window{Start: 0, PageSize: 25, TotalCount: TotalUnknown},
			delta:      25,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ok := tt.window.URLForRelativeOffset(u, tt.delta)
			require.Equal(t, tt.expectedOK, ok)
			if !ok {
				assert.Empty(t, link)
				return
			}
			parsed := listURL(t, link)
			assert.Equal(t, tt.expectedStart, parsed.Query().Get("start"))
			assert.Equal(t, "grid", parsed.Query().Get("q"))
		})
	}
}

func TestURLForRelativeOffsetBoundaryProperty(t *testing.T) {
	// disabled exactly when start+delta <= -pageSize or >= totalCount
	u := listURL(t, "/features")
	w := Window{Start: 50, PageSize: 25, TotalCount: 100}

	for delta := -100; delta <= 100; delta += 5 {
		_, ok := w.URLForRelativeOffset(u, delta)
		next := w.Start + delta
		expected := next > -w.PageSize && next < w.TotalCount
		assert.Equal(t, expected, ok, fmt.Sprintf("delta=%d", delta))
	}
}

func TestPageSizeChoices(t *testing.T) {
	preset := Window{Start: 0, PageSize: 50, TotalCount: 100}
	assert.Equal(t, []int{25, 50, 100}, preset.PageSizeChoices())

	custom := Window{Start: 0, PageSize: 40, TotalCount: 100}
	assert.Equal(t, []int{25, 40, 50, 100}, custom.PageSizeChoices())
}
