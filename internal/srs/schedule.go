package srs

// MaxBucket is the highest review bucket.
const MaxBucket = 4

// BucketOffsetDays maps a bucket to the number of calendar days until the
// item is due again.
var BucketOffsetDays = [MaxBucket + 1]int{0, 1, 2, 4, 7}

// OffsetDays returns the due offset for bucket, clamped into [0, MaxBucket].
func OffsetDays(bucket int) int {
	return BucketOffsetDays[clamp(bucket)]
}

func clamp(bucket int) int {
	if bucket < 0 {
		return 0
	}
	if bucket > MaxBucket {
		return MaxBucket
	}
	return bucket
}
