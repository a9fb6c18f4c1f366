// Package disjointset implements a union-find structure with path compression
// and union by rank. It backs both directory-group merging in partitioning and
// cluster agglomeration.
package disjointset

// Set is a disjoint-set forest over the integers [0, n)
type Set struct {
	parent []int
	rank   []int
	count  int
}

// New creates a disjoint set with n singleton elements
func New(n int) *Set {
	s := &Set{
		parent: make([]int, n),
		rank:   make([]int, n),
		count:  n,
	}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

// Find returns the representative of x's set, compressing the path
func (s *Set) Find(x int) int {
	for s.parent[x] != x {
		s.parent[x] = s.parent[s.parent[x]]
		x = s.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns true if a merge happened,
// false if they were already in the same set.
func (s *Set) Union(x, y int) bool {
	rx, ry := s.Find(x), s.Find(y)
	if rx == ry {
		return false
	}
	if s.rank[rx] < s.rank[ry] {
		rx, ry = ry, rx
	}
	s.parent[ry] = rx
	if s.rank[rx] == s.rank[ry] {
		s.rank[rx]++
	}
	s.count--
	return true
}

// Connected reports whether x and y are in the same set
func (s *Set) Connected(x, y int) bool {
	return s.Find(x) == s.Find(y)
}

// Count returns the number of disjoint sets remaining
func (s *Set) Count() int { return s.count }

// Groups returns the members of each set, keyed by representative.
// Member slices preserve ascending element order.
func (s *Set) Groups() map[int][]int {
	groups := make(map[int][]int)
	for i := range s.parent {
		root := s.Find(i)
		groups[root] = append(groups[root], i)
	}
	return groups
}
