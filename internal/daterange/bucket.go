package daterange

import "time"

// The backend buckets time-series data by range width unless the
// client disables aggregation. These thresholds mirror the server's
// strategy so the drill-down view can tell the user what bucketing a
// range will get before the request is made.

// BucketInterval is the server-side aggregation bucket for a range.
type BucketInterval string

const (
	BucketNone       BucketInterval = "none"
	BucketMinute     BucketInterval = "1 minute"
	BucketTenMinutes BucketInterval = "10 minutes"
	BucketHour       BucketInterval = "1 hour"
)

// PredictBucket returns the bucket interval the backend will apply to
// the given range: none up to 8 hours, 1-minute buckets up to a day,
// 10-minute buckets up to 4 days, hourly beyond that. disableAggregation
// forces none regardless of width.
func PredictBucket(from, to time.Time, disableAggregation bool) BucketInterval {
	if disableAggregation {
		return BucketNone
	}

	width := to.Sub(from)
	switch {
	case width <= 8*time.Hour:
		return BucketNone
	case width <= 24*time.Hour:
		return BucketMinute
	case width <= 4*24*time.Hour:
		return BucketTenMinutes
	default:
		return BucketHour
	}
}
