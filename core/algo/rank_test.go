package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scored struct {
	team  string
	score float64
	ok    bool
}

func keyOf(rows []scored) func(int) (float64, bool) {
	return func(i int) (float64, bool) { return rows[i].score, rows[i].ok }
}

func teamOf(rows []scored) func(int) string {
	return func(i int) string { return rows[i].team }
}

func TestDenseRankWithinTopTie(t *testing.T) {
	rows := []scored{
		{"GSW", 60, true},
		{"GSW", 72, true},
		{"GSW", 72, true},
		{"GSW", 55, true},
	}
	ranks := DenseRankWithin(len(rows), teamOf(rows), keyOf(rows))
	assert.Equal(t, []int{2, 1, 1, 3}, ranks)
}

func TestMinRankWithinThreeWayTie(t *testing.T) {
	rows := []scored{
		{"A", 80, true},
		{"B", 80, true},
		{"C", 80, true},
		{"A", 70, true},
		{"B", 65, true},
	}
	league := func(int) string { return "2023-24" }
	ranks := MinRankWithin(len(rows), league, keyOf(rows))
	assert.Equal(t, []int{1, 1, 1, 4, 5}, ranks)
}

func TestRankWithinPartitionsAreIndependent(t *testing.T) {
	rows := []scored{
		{"GSW", 50, true},
		{"DAL", 40, true},
		{"GSW", 45, true},
		{"DAL", 90, true},
	}
	ranks := DenseRankWithin(len(rows), teamOf(rows), keyOf(rows))
	assert.Equal(t, []int{1, 2, 2, 1}, ranks)
}

func TestRankWithinMissingKeysLast(t *testing.T) {
	rows := []scored{
		{"X", 0, false},
		{"X", 30, true},
		{"X", 0, false},
		{"X", 30, true},
		{"X", 10, true},
	}
	assert.Equal(t, []int{3, 1, 3, 1, 2}, DenseRankWithin(len(rows), teamOf(rows), keyOf(rows)))
	assert.Equal(t, []int{4, 1, 4, 1, 3}, MinRankWithin(len(rows), teamOf(rows), keyOf(rows)))
}

func TestRankWithinEmpty(t *testing.T) {
	ranks := RankWithin(0, func(int) int { return 0 }, func(int) (float64, bool) { return 0, false }, MinRanking)
	assert.Empty(t, ranks)
}

// TestDenseRanksAreContiguous checks that dense ranks cover exactly 1..k for k distinct keys.
func TestDenseRanksAreContiguous(t *testing.T) {
	values := []float64{3, 9, 3, 1, 9, 7, 7, 7, 2}
	rows := make([]scored, len(values))
	for i, v := range values {
		rows[i] = scored{"T", v, true}
	}
	ranks := DenseRankWithin(len(rows), teamOf(rows), keyOf(rows))

	distinct := map[float64]struct{}{}
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	seen := map[int]struct{}{}
	for _, r := range ranks {
		seen[r] = struct{}{}
	}
	assert.Len(t, seen, len(distinct))
	for r := 1; r <= len(distinct); r++ {
		assert.Contains(t, seen, r)
	}
}

func BenchmarkMinRankWithin(b *testing.B) {
	rows := make([]scored, 500)
	for i := range rows {
		rows[i] = scored{string(rune('A' + i%30)), float64(i % 97), true}
	}
	for b.Loop() {
		MinRankWithin(len(rows), teamOf(rows), keyOf(rows))
	}
}
