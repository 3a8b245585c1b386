package highlight

import (
	"sort"

	"github.com/andreicstoica/refract/internal/domain"
)

// Segment is one span of the text partition. Range is the active highlight
// range that fully contains the segment, or nil for unpainted text.
type Segment struct {
	Start int
	End   int
	Range *domain.HighlightRange
}

// AnimationChunk groups contiguous painted segments for staggered reveal and
// hide animation. Index is the chunk's position in document order.
type AnimationChunk struct {
	Index    int
	Segments []Segment
}

// BuildCutPoints returns the union of all range boundaries plus 0 and textLen,
// ascending with no duplicates. Boundaries outside [0,textLen] are clamped.
// The partition induced by these points is stable as the active theme
// selection changes, so highlight transitions do not reflow text.
func BuildCutPoints(textLen int, ranges []domain.HighlightRange) []int {
	seen := map[int]bool{0: true, textLen: true}
	for _, r := range ranges {
		seen[clamp(r.Start, textLen)] = true
		seen[clamp(r.End, textLen)] = true
	}

	points := make([]int, 0, len(seen))
	for p := range seen {
		points = append(points, p)
	}
	sort.Ints(points)
	return points
}

// SegmentText partitions text on the cut points of the given ranges and paints
// each segment with whichever range fully contains it, earlier ranges winning
// ties. Pass only the active ranges; inactive themes simply leave their
// segments unpainted.
func SegmentText(text string, ranges []domain.HighlightRange) []Segment {
	points := BuildCutPoints(len(text), ranges)

	var segments []Segment
	for i := 0; i+1 < len(points); i++ {
		seg := Segment{Start: points[i], End: points[i+1]}
		for j := range ranges {
			if ranges[j].Start <= seg.Start && seg.End <= ranges[j].End {
				seg.Range = &ranges[j]
				break
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// GroupChunks collects contiguous painted segments into animation chunks,
// indexed in document order. Unpainted segments break chunks.
func GroupChunks(segments []Segment) []AnimationChunk {
	var chunks []AnimationChunk
	var current []Segment

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, AnimationChunk{Index: len(chunks), Segments: current})
		current = nil
	}

	for _, seg := range segments {
		if seg.Range == nil {
			flush()
			continue
		}
		current = append(current, seg)
	}
	flush()
	return chunks
}

// HideOrder returns the chunks in reverse document order, the sequencing used
// when animating highlights away.
func HideOrder(chunks []AnimationChunk) []AnimationChunk {
	out := make([]AnimationChunk, len(chunks))
	for i, c := range chunks {
		out[len(chunks)-1-i] = c
	}
	return out
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
