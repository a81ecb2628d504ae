package chartdata

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Row is one output row of an aggregated table: the values of every series
// at a single timestamp. A series lacking that timestamp has no entry.
type Row struct {
	Timestamp time.Time
	values    map[string]float64
}

// Value returns the value of the labeled series at this row's timestamp.
// ok is false when the series has no observation at that timestamp.
func (r Row) Value(label string) (value float64, ok bool) {
	value, ok = r.values[label]
	return value, ok
}

// Values returns a copy of the row's label-to-value mapping.
func (r Row) Values() map[string]float64 {
	out := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Table maps every timestamp observed in any input series to the values of
// all series at that timestamp, ordered ascending.
type Table struct {
	labels []string
	rows   []Row
}

// Labels returns the series labels in render order: sources first, then
// derived series, both in configuration order.
func (t *Table) Labels() []string { return t.labels }

// Rows returns the table rows in ascending timestamp order.
func (t *Table) Rows() []Row { return t.rows }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Derived configures an additional series computed from the collected
// per-source values at each timestamp, e.g. a running total or maximum.
// When Cache is non-nil, values already present for a timestamp are reused
// instead of recomputed, which pays off when re-aggregating an overlapping
// date window.
type Derived struct {
	Label  string
	Reduce func(values []float64) float64
	Cache  map[int64]float64
}

// Max reduces to the largest value.
func Max(values []float64) float64 {
	best := values[0]
	for _, v := range values[1:] {
		if v > best {
			best = v
		}
	}
	return best
}

// Total reduces to the sum of all values.
func Total(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

type aggregation struct {
	derived []Derived
}

// Option tunes an aggregation run.
type Option func(*aggregation)

// WithDerived appends a derived series to the output table.
func WithDerived(d Derived) Option {
	return func(a *aggregation) {
		a.derived = append(a.derived, d)
	}
}

// Aggregate fetches every source concurrently and merges the collected
// points into a single table keyed by timestamp. The join is all-or-nothing:
// if any source fails, the whole aggregation fails and results from sibling
// sources are discarded.
func Aggregate(ctx context.Context, sources []SeriesSource, opts ...Option) (*Table, error) {
	var agg aggregation
	for _, opt := range opts {
		opt(&agg)
	}

	collected := make([][]TimePoint, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = src.drain(ctx, func(p TimePoint) {
				collected[i] = append(collected[i], p)
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", sources[i].Label, err)
		}
	}

	return merge(sources, collected, agg.derived), nil
}

// merge builds the output table from fully collected per-source points.
// Points are merged by timestamp, not arrival order.
func merge(sources []SeriesSource, collected [][]TimePoint, derived []Derived) *Table {
	byTimestamp := make(map[int64]map[string]float64)
	times := make(map[int64]time.Time)

	for i, src := range sources {
		for _, p := range collected[i] {
			key := p.Timestamp.UnixMilli()
			row, ok := byTimestamp[key]
			if !ok {
				row = make(map[string]float64)
				byTimestamp[key] = row
				times[key] = p.Timestamp
			}
			row[src.Label] = p.Value
		}
	}

	keys := make([]int64, 0, len(byTimestamp))
	for key := range byTimestamp {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, d := range derived {
		cache := d.Cache
		if cache == nil {
			cache = make(map[int64]float64)
		}
		for _, key := range keys {
			row := byTimestamp[key]
			value, ok := cache[key]
			if !ok {
				values := make([]float64, 0, len(sources))
				for _, src := range sources {
					if v, present := row[src.Label]; present {
						values = append(values, v)
					}
				}
				if len(values) == 0 {
					continue
				}
				value = d.Reduce(values)
				cache[key] = value
			}
			row[d.Label] = value
		}
	}

	labels := make([]string, 0, len(sources)+len(derived))
	for _, src := range sources {
		labels = append(labels, src.Label)
	}
	for _, d := range derived {
		labels = append(labels, d.Label)
	}

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, Row{Timestamp: times[key], values: byTimestamp[key]})
	}

	return &Table{labels: labels, rows: rows}
}
