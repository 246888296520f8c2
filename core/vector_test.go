package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 0},
			b:    []float64{-1, 0},
			want: -1,
		},
		{
			name: "scaled vectors keep similarity",
			a:    []float64{1, 2},
			b:    []float64{2, 4},
			want: 1,
		},
		{
			name: "dimension mismatch returns zero",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2},
			want: 0,
		},
		{
			name: "zero vector returns zero",
			a:    []float64{0, 0},
			b:    []float64{1, 1},
			want: 0,
		},
		{
			name: "empty vectors return zero",
			a:    nil,
			b:    nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Fatalf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	t.Run("element-wise mean", func(t *testing.T) {
		got := Centroid([][]float64{{1, 2}, {3, 4}})
		want := []float64{2, 3}
		if len(got) != len(want) {
			t.Fatalf("Centroid() = %v, want %v", got, want)
		}
		for i := range want {
			if !almostEqual(got[i], want[i]) {
				t.Fatalf("Centroid()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("mismatched dimensions skipped", func(t *testing.T) {
		got := Centroid([][]float64{{1, 2}, {9, 9, 9}, {3, 4}})
		want := []float64{2, 3}
		for i := range want {
			if !almostEqual(got[i], want[i]) {
				t.Fatalf("Centroid()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("no usable vectors returns nil", func(t *testing.T) {
		if got := Centroid(nil); got != nil {
			t.Fatalf("Centroid(nil) = %v, want nil", got)
		}
		if got := Centroid([][]float64{{}, nil}); got != nil {
			t.Fatalf("Centroid(empty) = %v, want nil", got)
		}
	})
}

func TestSortCandidates(t *testing.T) {
	c := func(id string, sim float64) *Candidate {
		return NewCandidate(&Book{ID: id}, sim)
	}

	candidates := []*Candidate{
		c("b", 0.5), c("a", 0.5), c("c", 0.9), c("d", 0.1),
	}
	SortCandidates(candidates)

	wantOrder := []string{"c", "a", "b", "d"}
	for i, want := range wantOrder {
		if candidates[i].Book.ID != want {
			t.Fatalf("position %d = %s, want %s", i, candidates[i].Book.ID, want)
		}
	}
}
