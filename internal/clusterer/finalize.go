package clusterer

import (
	"fmt"
	"strings"

	"github.com/dshills/gocluster-mcp/pkg/types"
)

// Finalize renumbers per-partition clusters into one globally sequenced list.
// The builder itself stays partition-local and referentially transparent; this
// post-construction step is owned by the orchestrating caller.
//
// Cluster IDs become "c1".."cN" across the partitions in the given order, and
// derived names are qualified with their partition. Fallback names built from
// the local ID are re-derived from the global one.
func Finalize(byPartition [][]*types.Cluster) []*types.Cluster {
	var all []*types.Cluster
	seq := 0
	for _, clusters := range byPartition {
		for _, c := range clusters {
			seq++
			localFallback := "cluster-" + c.ID
			c.ID = fmt.Sprintf("c%d", seq)
			if c.Name == localFallback {
				c.Name = "cluster-" + c.ID
			} else if !strings.HasPrefix(c.Name, c.Partition+": ") {
				c.Name = c.Partition + ": " + c.Name
			}
			all = append(all, c)
		}
	}
	return all
}
