// Package metrics computes derived utilization ratios and the cluster-wide
// summary over a full node set.
package metrics

import "github.com/rice8y/sdetails/internal/slurm"

// Summary aggregates the whole unfiltered node set. Aggregate utilization is
// sum-of-allocated over sum-of-total, so large nodes weigh proportionally
// instead of skewing a per-node average.
type Summary struct {
	Nodes    int
	States   map[slurm.State]int
	Degraded int

	CPUsTotal  int
	CPUsAlloc  int
	MemTotalMB int
	MemAllocMB int
	GPUsTotal  int
	GPUsAlloc  int

	CPUUtil float64
	MemUtil float64
	GPUUtil float64

	RunningJobs int
	QueuedJobs  int
}

// Ratio divides allocated by total, returning 0 for an absent resource
// rather than NaN.
func Ratio(alloc, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(alloc) / float64(total)
}

// Annotate fills the derived utilization fields on each record in place.
func Annotate(nodes []slurm.NodeRecord) {
	for i := range nodes {
		nodes[i].CPUUtil = Ratio(nodes[i].CPUsAlloc, nodes[i].CPUsTotal)
		nodes[i].MemUtil = Ratio(nodes[i].MemAllocMB, nodes[i].MemTotalMB)
		nodes[i].GPUUtil = Ratio(nodes[i].GPUsAlloc, nodes[i].GPUsTotal)
	}
}

// Summarize computes the cluster summary over the full node set. It runs
// before any display filtering so filtered views keep the same numbers.
func Summarize(nodes []slurm.NodeRecord, snap *slurm.Snapshot, degraded int) Summary {
	sum := Summary{
		Nodes:    len(nodes),
		States:   make(map[slurm.State]int),
		Degraded: degraded,
	}

	for i := range nodes {
		n := &nodes[i]
		sum.States[n.State]++
		sum.CPUsTotal += n.CPUsTotal
		sum.CPUsAlloc += n.CPUsAlloc
		sum.MemTotalMB += n.MemTotalMB
		sum.MemAllocMB += n.MemAllocMB
		sum.GPUsTotal += n.GPUsTotal
		sum.GPUsAlloc += n.GPUsAlloc
	}

	sum.CPUUtil = Ratio(sum.CPUsAlloc, sum.CPUsTotal)
	sum.MemUtil = Ratio(sum.MemAllocMB, sum.MemTotalMB)
	sum.GPUUtil = Ratio(sum.GPUsAlloc, sum.GPUsTotal)

	if snap != nil {
		for _, c := range snap.RunningByNode {
			sum.RunningJobs += c
		}
		for _, c := range snap.QueuedByPartition {
			sum.QueuedJobs += c
		}
	}

	return sum
}
