package oracle

import (
	"sort"
)

const DefaultCapacity = 1000

// RankArray answers Insert, Delete, Select and Rank for integer keys in
// [1, capacity) with a prefix count array. It is linear time per update
// and is used to cross-check the order-statistics tree.
//
// rank[x] stores the number of keys <= x, so
//   - x is present iff rank[x-1] != rank[x]
//   - rank[capacity-1] equals the number of keys
//
// Every operation returns 0 when the tree would report an absent result.
type RankArray struct {
	rank []int
}

func NewRankArray(capacity ...int) *RankArray {
	c := DefaultCapacity
	if len(capacity) > 0 && capacity[0] > 1 {
		c = capacity[0]
	}
	return &RankArray{
		rank: make([]int, c),
	}
}

func (arr *RankArray) Cap() int {
	return len(arr.rank)
}

func (arr *RankArray) Len() int {
	return arr.rank[len(arr.rank)-1]
}

func (arr *RankArray) inRange(x int) bool {
	return x >= 1 && x < len(arr.rank)
}

func (arr *RankArray) contains(x int) bool {
	return arr.rank[x-1] != arr.rank[x]
}

func (arr *RankArray) Insert(x int) int {
	if !arr.inRange(x) || arr.contains(x) {
		return 0
	}
	for i := x; i < len(arr.rank); i++ {
		arr.rank[i]++
	}
	return x
}

func (arr *RankArray) Delete(x int) int {
	if !arr.inRange(x) || !arr.contains(x) {
		return 0
	}
	for i := x; i < len(arr.rank); i++ {
		arr.rank[i]--
	}
	return x
}

// Select returns the smallest m with rank[m] == i.
// rank grows by at most one per step, so it is also the smallest m with rank[m] >= i.
func (arr *RankArray) Select(i int) int {
	if i < 1 || i > arr.Len() {
		return 0
	}
	return sort.Search(len(arr.rank), func(m int) bool {
		return arr.rank[m] >= i
	})
}

func (arr *RankArray) Rank(x int) int {
	if !arr.inRange(x) || !arr.contains(x) {
		return 0
	}
	return arr.rank[x]
}

func (arr *RankArray) Clear() {
	clear(arr.rank)
}
