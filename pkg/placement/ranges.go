// Package placement slices a partition's capacity into fixed-size placement
// groups. It is the single authority for group boundaries; the config
// emitters and the creation-request builder all derive membership from it so
// the generated artifacts can never disagree.
package placement

// Range is a half-open [Start, End) slice of node ordinals within a
// partition.
type Range struct {
	Start int
	End   int
}

// Len returns the number of ordinals the range covers.
func (r Range) Len() int {
	return r.End - r.Start
}

// Ranges partitions [0, maxVMCount) into ascending, contiguous half-open
// ranges of at most maxScalesetSize each. The result has
// ceil(maxVMCount/maxScalesetSize) entries with no gaps or overlaps.
func Ranges(maxVMCount, maxScalesetSize int) []Range {
	if maxVMCount <= 0 || maxScalesetSize <= 0 {
		return nil
	}
	out := make([]Range, 0, (maxVMCount+maxScalesetSize-1)/maxScalesetSize)
	for start := 0; start < maxVMCount; start += maxScalesetSize {
		end := start + maxScalesetSize
		if end > maxVMCount {
			end = maxVMCount
		}
		out = append(out, Range{Start: start, End: end})
	}
	return out
}
