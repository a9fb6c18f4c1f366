// Package clusterer builds clusters from scored edges using average-linkage
// agglomerative merging.
//
// # Algorithm
//
// Merge candidates live in a max-heap ordered by linkage weight. Each pop
// re-computes the current average linkage between the two groups (group
// membership may have changed since the candidate was pushed):
//
//   - still at or above the recorded weight minus a small epsilon: merge
//   - drifted below the threshold: discard
//   - otherwise: re-push with the corrected weight
//
// Merging uses union-find, and every merge pushes fresh candidates against
// the remaining groups. The loop ends when the best candidate falls below
// the threshold (default 0.15).
//
// Partitions with three or fewer eligible chunks skip the heap entirely and
// become a single cluster.
//
// # Naming
//
// Cluster names combine the members' common directory prefix with their
// three most frequent tokens, e.g. "internal/auth (token, session, verify)".
// Clusters with no usable tokens fall back to "cluster-<id>".
//
// # Determinism
//
// Heap ties break on the lexicographic pair key and all member lists are
// sorted, so identical edge input always produces identical clusters.
package clusterer
