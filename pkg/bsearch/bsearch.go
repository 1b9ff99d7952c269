// Package bsearch implements boundary binary search over an abstract,
// index-addressed key accessor. It is the lookup engine behind the sorted
// file format and is independent of how keys are stored or decoded.
package bsearch

// Direction selects which boundary of a run of equal keys the search
// resolves to.
type Direction int

const (
	// Leftmost resolves to the smallest index i with key(i) >= x.
	Leftmost Direction = iota
	// Rightmost resolves to the largest index i with key(i) <= x.
	Rightmost
)

// Boundary performs a binary search over indices [0, n) and returns the
// boundary index for x in the given direction. The accessor at reads the key
// stored at an index; cmp is a strict total order over keys.
//
// The returned index does not certify that x is present: for Leftmost it may
// equal n, for Rightmost it may be -1, and even in range the key at the
// boundary must be compared against x by the caller. The search costs
// O(log n) key reads.
func Boundary[K any](n int, x K, at func(int) (K, error), cmp func(a, b K) (int, error), dir Direction) (int, error) {
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		k, err := at(mid)
		if err != nil {
			return 0, err
		}
		c, err := cmp(k, x)
		if err != nil {
			return 0, err
		}
		if c < 0 || (dir == Rightmost && c == 0) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if dir == Rightmost {
		return lo - 1, nil
	}
	return lo, nil
}
