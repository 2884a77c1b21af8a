package algo

import (
	"cmp"
	"slices"
)

// RankStrategy assigns 1-based ranks to the members of a single partition.
// ordered holds row indices sorted by descending key, rows without a key last.
// The strategy writes into ranks, which is indexed by row.
type RankStrategy func(ordered []int, key func(int) (float64, bool), ranks []int)

// DenseRanking gives tied rows the same rank and the next distinct key the
// immediately following integer, so ranks have no gaps.
var DenseRanking RankStrategy = func(ordered []int, key func(int) (float64, bool), ranks []int) {
	rank := 0
	for i, row := range ordered {
		if i == 0 || !tied(key, ordered[i-1], row) {
			rank++
		}
		ranks[row] = rank
	}
}

// MinRanking gives tied rows the lowest position they occupy together.
// The rank after a group of m tied rows at rank r is r+m.
var MinRanking RankStrategy = func(ordered []int, key func(int) (float64, bool), ranks []int) {
	rank := 0
	for i, row := range ordered {
		if i == 0 || !tied(key, ordered[i-1], row) {
			rank = i + 1
		}
		ranks[row] = rank
	}
}

// RankWithin ranks n rows inside the partitions produced by partition, by
// descending key. Rows whose key is absent rank after every keyed row of
// their partition and tie with each other. Ties keep input order.
func RankWithin[K comparable](n int, partition func(int) K, key func(int) (float64, bool), strategy RankStrategy) []int {
	ranks := make([]int, n)
	groups := make(map[K][]int)
	var order []K
	for i := range n {
		p := partition(i)
		if _, seen := groups[p]; !seen {
			order = append(order, p)
		}
		groups[p] = append(groups[p], i)
	}
	for _, p := range order {
		members := groups[p]
		slices.SortStableFunc(members, func(a, b int) int {
			return compareDesc(key, a, b)
		})
		strategy(members, key, ranks)
	}
	return ranks
}

// DenseRankWithin is RankWithin with DenseRanking.
func DenseRankWithin[K comparable](n int, partition func(int) K, key func(int) (float64, bool)) []int {
	return RankWithin(n, partition, key, DenseRanking)
}

// MinRankWithin is RankWithin with MinRanking.
func MinRankWithin[K comparable](n int, partition func(int) K, key func(int) (float64, bool)) []int {
	return RankWithin(n, partition, key, MinRanking)
}

func compareDesc(key func(int) (float64, bool), a, b int) int {
	va, oka := key(a)
	vb, okb := key(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	}
	return cmp.Compare(vb, va)
}

func tied(key func(int) (float64, bool), a, b int) bool {
	return compareDesc(key, a, b) == 0
}
