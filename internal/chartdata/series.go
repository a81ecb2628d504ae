package chartdata

import (
	"context"
	"time"
)

// TimePoint is one observation for one named series.
type TimePoint struct {
	Timestamp time.Time
	Value     float64
}

// Page is one page of a lazy paginated sequence of typed records.
type Page[T any] struct {
	Data          []T
	NextPageToken *string
}

// PageFetcher fetches one page of records. A nil page token requests the
// first page; the returned NextPageToken is nil once the sequence is drained.
type PageFetcher[T any] func(ctx context.Context, pageToken *string) (Page[T], error)

// SeriesSource produces one labeled series by draining a page sequence.
type SeriesSource struct {
	Label string
	drain func(ctx context.Context, emit func(TimePoint)) error
}

// Source binds a typed page fetcher to a series label using the given
// timestamp and value extractors. Points are emitted page by page as they
// arrive rather than after the whole sequence is buffered.
func Source[T any](label string, fetch PageFetcher[T], timestamp func(T) time.Time, value func(T) float64) SeriesSource {
	return SeriesSource{
		Label: label,
		drain: func(ctx context.Context, emit func(TimePoint)) error {
			var token *string
			for {
				page, err := fetch(ctx, token)
				if err != nil {
					return err
				}
				for _, record := range page.Data {
					emit(TimePoint{Timestamp: timestamp(record), Value: value(record)})
				}
				if page.NextPageToken == nil {
					return nil
				}
				token = page.NextPageToken
			}
		},
	}
}

// PointSource wraps an already-materialized point list as a source.
func PointSource(label string, points []TimePoint) SeriesSource {
	return SeriesSource{
		Label: label,
		drain: func(_ context.Context, emit func(TimePoint)) error {
			for _, p := range points {
				emit(p)
			}
			return nil
		},
	}
}
