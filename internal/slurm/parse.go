package slurm

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rice8y/sdetails/internal/logger"
)

// ParseResult is the best-effort outcome of normalizing a snapshot.
// Parsing never fails: malformed rows produce degraded records, not errors.
type ParseResult struct {
	Nodes    []NodeRecord
	Degraded int

	// DefaultPartition is the partition sinfo marked with '*', if any.
	DefaultPartition string
}

// GRES totals look like "gpu:4" or "gpu:a100:4(S:0-1)"; used counts look
// like "gpu:a100:2(IDX:0-1)". Both reduce to the count after an optional
// type component.
var gresGPURe = regexp.MustCompile(`gpu:(?:[\w.\-]+:)?(\d+)`)

// ParseNodes normalizes raw sinfo rows into one NodeRecord per node.
// Rows for the same node (one per partition) are merged into a single
// record with a sorted partition set. Fields that fail to parse become 0
// and mark the record degraded; allocated counts exceeding totals are
// clamped and logged.
func ParseNodes(snap *Snapshot, log logger.Logger) ParseResult {
	if log == nil {
		log = logger.Noop()
	}

	var res ParseResult
	byName := make(map[string]*NodeRecord)
	var order []string

	for _, row := range snap.Rows {
		if row.Name == "" {
			log.Debug("skipping row with empty node name (partition %q)", row.Partition)
			continue
		}

		partition := strings.TrimSuffix(row.Partition, "*")
		if partition != row.Partition {
			res.DefaultPartition = partition
		}

		rec, ok := byName[row.Name]
		if !ok {
			rec = &NodeRecord{Name: row.Name}
			byName[row.Name] = rec
			order = append(order, row.Name)
			parseResources(rec, row, log)
		}

		// Same node listed under another partition: union the partition set
		// and keep the most specific state across rows.
		if partition != "" && !rec.HasPartition(partition) {
			rec.Partitions = append(rec.Partitions, partition)
		}
		if s := ParseState(row.State); s > rec.State {
			rec.State = s
			rec.RawState = row.State
		} else if rec.RawState == "" {
			rec.RawState = row.State
		}
	}

	res.Nodes = make([]NodeRecord, 0, len(order))
	for _, name := range order {
		rec := byName[name]
		sort.Strings(rec.Partitions)
		rec.RunningJobs = snap.RunningByNode[name]
		for _, p := range rec.Partitions {
			rec.QueuedJobs += snap.QueuedByPartition[p]
		}
		if rec.Degraded {
			res.Degraded++
		}
		res.Nodes = append(res.Nodes, *rec)
	}

	// Deterministic base order; the view pipeline re-sorts for display.
	sort.Slice(res.Nodes, func(i, j int) bool {
		return res.Nodes[i].Name < res.Nodes[j].Name
	})

	return res
}

// parseResources fills the CPU, memory, and GPU counters from one raw row.
func parseResources(rec *NodeRecord, row RawNode, log logger.Logger) {
	alloc, total, ok := parseCPUState(row.CPUs)
	if !ok {
		log.Warn("node %s: unparseable CPU field %q, recording as degraded", row.Name, row.CPUs)
		rec.Degraded = true
	}
	rec.CPUsAlloc, rec.CPUsTotal = clamp(row.Name, "cpus", alloc, total, log)

	memAlloc, ok := parseInt(row.AllocMem)
	if !ok {
		log.Warn("node %s: unparseable AllocMem field %q, recording as degraded", row.Name, row.AllocMem)
		rec.Degraded = true
	}
	memTotal, ok := parseInt(row.Memory)
	if !ok {
		log.Warn("node %s: unparseable Memory field %q, recording as degraded", row.Name, row.Memory)
		rec.Degraded = true
	}
	rec.MemAllocMB, rec.MemTotalMB = clamp(row.Name, "memory", memAlloc, memTotal, log)

	gpuAlloc, gpuTotal := parseGPUs(row.Gres, row.GresUsed)
	rec.GPUsAlloc, rec.GPUsTotal = clamp(row.Name, "gpus", gpuAlloc, gpuTotal, log)
}

// parseCPUState splits sinfo's CPUsState column "allocated/idle/other/total"
// into the allocated and total counts.
func parseCPUState(s string) (alloc, total int, ok bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return 0, 0, false
	}
	alloc, okA := parseInt(parts[0])
	total, okT := parseInt(parts[3])
	if !okA || !okT {
		return 0, 0, false
	}
	return alloc, total, true
}

// parseGPUs extracts GPU counts from the Gres and GresUsed columns.
// Nodes without GPUs report "(null)" or empty text; that is not an error,
// just zero GPUs. Used counts may be split across GRES types and are summed.
func parseGPUs(gres, gresUsed string) (alloc, total int) {
	if m := gresGPURe.FindStringSubmatch(gres); m != nil {
		total, _ = strconv.Atoi(m[1])
	}
	for _, m := range gresGPURe.FindAllStringSubmatch(gresUsed, -1) {
		n, _ := strconv.Atoi(m[1])
		alloc += n
	}
	return alloc, total
}

// clamp enforces 0 <= alloc <= total, logging violations instead of failing.
func clamp(node, field string, alloc, total int, log logger.Logger) (int, int) {
	if total < 0 {
		total = 0
	}
	if alloc < 0 {
		alloc = 0
	}
	if alloc > total {
		log.Warn("node %s: %s allocated %d exceeds total %d, clamping", node, field, alloc, total)
		alloc = total
	}
	return alloc, total
}

// parseInt parses a non-negative integer, tolerating surrounding space.
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
