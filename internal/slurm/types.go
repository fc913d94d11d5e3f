// Package slurm fetches raw node data from the Slurm client tools and
// normalizes it into per-node records.
package slurm

import "time"

// RawNode is one unparsed sinfo row. sinfo reports one row per
// (partition, node) pair, so a node serving several partitions appears in
// several rows. Fields hold the raw column text exactly as printed.
type RawNode struct {
	Partition string // partition name, "*" suffix marks the default partition
	Name      string
	State     string // compact state, e.g. "mix", "alloc*", "drng"
	CPUs      string // allocated/idle/other/total, e.g. "4/4/0/8"
	AllocMem  string // allocated memory in MB
	Memory    string // total memory in MB
	Gres      string // e.g. "gpu:a100:2" or "(null)"
	GresUsed  string // e.g. "gpu:a100:1(IDX:0)"
}

// Snapshot is one point-in-time fetch from the cluster: the raw sinfo rows
// plus job counts gathered from squeue.
type Snapshot struct {
	FetchedAt time.Time
	Rows      []RawNode

	// RunningByNode counts running jobs per node name.
	// QueuedByPartition counts pending jobs per partition; pending jobs have
	// no node assignment yet, so they can only be attributed to a partition.
	RunningByNode     map[string]int
	QueuedByPartition map[string]int
}

// NodeRecord is one compute node normalized from its raw rows.
// The utilization fields are derived and filled in by metrics.Annotate.
type NodeRecord struct {
	Name       string
	Partitions []string // sorted set of partition names the node serves
	State      State
	RawState   string // compact state text as reported, for display

	CPUsTotal  int
	CPUsAlloc  int
	MemTotalMB int
	MemAllocMB int
	GPUsTotal  int
	GPUsAlloc  int

	RunningJobs int
	QueuedJobs  int

	// Degraded marks a record that had unparseable fields and carries
	// best-effort defaults instead.
	Degraded bool

	CPUUtil float64
	MemUtil float64
	GPUUtil float64
}

// HasPartition reports whether the node serves the named partition.
func (n *NodeRecord) HasPartition(name string) bool {
	for _, p := range n.Partitions {
		if p == name {
			return true
		}
	}
	return false
}

// FirstPartition returns the lexically first partition name, or "" for a
// node with no partition membership. Used as the sort key for partition
// ordering.
func (n *NodeRecord) FirstPartition() string {
	if len(n.Partitions) == 0 {
		return ""
	}
	return n.Partitions[0]
}
