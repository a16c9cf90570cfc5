package stats

// the composite word packs the observation count in the low countBits bits
// and the running sum in the remaining high bits, so that a single atomic add
// updates both.
// limits per window: count < 2^24, and the sum must fit in 40 signed bits
// (roughly +/- 5.5e11). exceeding either silently corrupts the aggregate.
const (
	countBits = 24
	countMask = 1<<countBits - 1

	// MaxCount is the number of observations a packed aggregate can hold in one window.
	MaxCount = countMask
)

// encodeDelta returns the value to add to the composite word to record v.
// the shift is done in 64 bits so negative and large values are encoded correctly.
func encodeDelta(v int32) int64 {
	return int64(v)<<countBits + 1
}

// decode splits a composite word that was read with a single atomic operation.
func decode(word int64) (sum int64, count uint32) {
	return word >> countBits, uint32(word & countMask)
}

func toMean(sum int64, count uint32) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

// Clamp32 converts v to int32, saturating at the bounds of the int32 range
func Clamp32(v int64) int32 {
	if v > maxInt32 {
		return maxInt32
	}
	if v < minInt32 {
		return minInt32
	}
	return int32(v)
}

const (
	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31
)
