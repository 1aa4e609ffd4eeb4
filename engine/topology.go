package engine

import "math"

// BracketSize returns the next power of two >= n.
func BracketSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// RoundCount returns ceil(log2(n)) rounds for n > 1, and 1 otherwise.
func RoundCount(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n))))
}

// ByesNeeded returns how many byes a draw of n participants requires.
func ByesNeeded(n int) int {
	return BracketSize(n) - n
}

// SeededPairingOrder computes the canonical seeded slot order for a
// power-of-two draw: seed 1 meets seed size in round 1, and seeds 1 and 2
// can only meet in the final. Built by the usual halving rule: take the
// order T for size/2, mirror it as B[i] = size-1-T[i], and interleave
// T[0],B[0],T[1],B[1],...
//
// For size=8 the order is [0 7 3 4 1 6 2 5], i.e. round-1 pairs
// (1,8),(4,5),(2,7),(3,6) in seed numbers.
func SeededPairingOrder(size int) []int {
	if size <= 1 {
		return []int{0}
	}
	if size == 2 {
		return []int{0, 1}
	}
	top := SeededPairingOrder(size / 2)
	order := make([]int, 0, size)
	for _, t := range top {
		order = append(order, t, size-1-t)
	}
	return order
}
