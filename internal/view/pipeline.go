// Package view turns the full node set into the ordered, filtered sequence
// a renderer displays. It is a pure transformation: no I/O, inputs untouched.
package view

import (
	"fmt"
	"sort"

	"github.com/rice8y/sdetails/internal/errors"
	"github.com/rice8y/sdetails/internal/slurm"
)

// SortKey selects the display ordering.
type SortKey string

const (
	SortName      SortKey = "nodename"
	SortPartition SortKey = "partition"
	SortState     SortKey = "state"
	SortCPU       SortKey = "cpu"
)

// ParseSortKey validates a --sort flag value.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortName, SortPartition, SortState, SortCPU:
		return SortKey(s), nil
	default:
		return "", errors.New(errors.ErrParse,
			fmt.Sprintf("Unknown sort key %q", s),
			"Valid sort keys: nodename, partition, state, cpu")
	}
}

// Apply filters the node set by partition membership and sorts it by key.
// An empty partition string disables filtering. Sorting is stable and fully
// ordered: every key breaks ties by node name ascending; "cpu" orders by
// CPU utilization descending, the rest ascending lexical. The input slice
// is never modified.
func Apply(nodes []slurm.NodeRecord, partition string, key SortKey) []slurm.NodeRecord {
	out := make([]slurm.NodeRecord, 0, len(nodes))
	for i := range nodes {
		if partition == "" || nodes[i].HasPartition(partition) {
			out = append(out, nodes[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		switch key {
		case SortPartition:
			if pa, pb := a.FirstPartition(), b.FirstPartition(); pa != pb {
				return pa < pb
			}
		case SortState:
			if sa, sb := a.State.String(), b.State.String(); sa != sb {
				return sa < sb
			}
		case SortCPU:
			if a.CPUUtil != b.CPUUtil {
				return a.CPUUtil > b.CPUUtil
			}
		}
		return a.Name < b.Name
	})

	return out
}
