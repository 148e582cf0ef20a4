package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/netgrid/pkg/pipeline"
)

func TestStatsLine(t *testing.T) {
	stats := pipeline.Stats{
		Width: 12, Height: 7, Gates: 4, Stages: 3,
		Boundaries: []pipeline.BoundaryStats{{Evictions: 1}, {Evictions: 2}},
	}
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
		absent []string
	}{
		{"fresh with evictions", stats, false, []string{"12x7", "4 gates", "3 stages", "3 evictions", "fresh"}, []string{"cached"}},
		{"cached without evictions", pipeline.Stats{Gates: 1, Stages: 3}, true, []string{"1 gates", "cached"}, []string{"evictions", "fresh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := statsLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("statsLine() = %q, missing %q", line, w)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(line, a) {
					t.Errorf("statsLine() = %q, should not contain %q", line, a)
				}
			}
		})
	}
}

func TestBoundaryTable(t *testing.T) {
	out := boundaryTable(pipeline.Stats{Boundaries: []pipeline.BoundaryStats{
		{Index: 0, Tracks: 4, Tasks: 2, Steps: 2},
		{Index: 1, Tracks: 9, Tasks: 5, Steps: 4, Evictions: 3, Widenings: 1, Crossings: 6},
	}})
	for _, w := range []string{"channel", "evictions", "0→1", "1→2"} {
		if !strings.Contains(out, w) {
			t.Errorf("boundaryTable() missing %q:\n%s", w, out)
		}
	}
}
