package sourcing

import (
	"math"
	"testing"
)

func TestChunkProgressInterpolatesFromStart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start float64
		done  int
		total int
		want  float64
	}{
		{"first of four from zero", 0, 1, 4, 25},
		{"last batch reaches 100", 0, 4, 4, 100},
		{"starts at 50", 50, 1, 2, 75},
		{"starts at 50 and finishes", 50, 2, 2, 100},
		{"zero total short circuits", 0, 0, 0, 100},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ChunkProgress(tc.start, tc.done, tc.total)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ChunkProgress(%v, %d, %d): got=%v want=%v", tc.start, tc.done, tc.total, got, tc.want)
			}
		})
	}
}
