// Package disjointset implements a union-find structure with path
// compression and union by rank, used for partition merging and cluster
// membership tracking.
package disjointset
