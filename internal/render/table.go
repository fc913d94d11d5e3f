package render

import (
	"fmt"
	"strings"

	"github.com/rice8y/sdetails/internal/slurm"
)

// TableOptions carries per-render context the table needs beyond the nodes.
type TableOptions struct {
	// Filter is the active partition filter, for the empty-state message.
	Filter string
	// DefaultPartition gets a '*' marker in the partition column.
	DefaultPartition string
}

var tableHeaders = []string{"NODE", "PARTITION", "STATE", "CPU", "MEMORY", "GPU", "JOBS"}

// Table renders one row per node with CPU, memory, and GPU allocation plus
// job counts. Rendering never fails on an empty sequence: it produces an
// explicit empty-state line instead.
func Table(nodes []slurm.NodeRecord, opts TableOptions, s Styles) string {
	if len(nodes) == 0 {
		if opts.Filter != "" {
			return fmt.Sprintf("No nodes match partition %q.\n", opts.Filter)
		}
		return "No matching nodes.\n"
	}

	plain := make([][]string, len(nodes))
	for i := range nodes {
		plain[i] = rowCells(&nodes[i], opts)
	}

	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len(h)
	}
	for _, row := range plain {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range tableHeaders {
		b.WriteString(padRight(s.Header.Render(h), widths[i]+2))
	}
	b.WriteString("\n")
	for i := range tableHeaders {
		b.WriteString(padRight(s.Muted.Render(strings.Repeat("-", widths[i])), widths[i]+2))
	}
	b.WriteString("\n")

	marked := false
	for i := range nodes {
		n := &nodes[i]
		cells := plain[i]
		styled := []string{
			cells[0],
			cells[1],
			s.State(n.State).Render(cells[2]),
			s.Util(n.CPUUtil).Render(cells[3]),
			s.Util(n.MemUtil).Render(cells[4]),
			gpuStyled(n, cells[5], s),
			cells[6],
		}
		if n.Degraded {
			marked = true
		}
		for j, cell := range styled {
			b.WriteString(padRight(cell, widths[j]+2))
		}
		b.WriteString("\n")
	}

	if opts.DefaultPartition != "" {
		b.WriteString(s.Muted.Render(" * --- default partition") + "\n")
	}
	if marked {
		b.WriteString(s.Muted.Render(" ! --- node reported unparseable fields, showing defaults") + "\n")
	}

	return b.String()
}

// rowCells builds the unstyled cell text for one node; widths are measured
// on these before styling.
func rowCells(n *slurm.NodeRecord, opts TableOptions) []string {
	name := n.Name
	if n.Degraded {
		name += " !"
	}

	parts := make([]string, len(n.Partitions))
	for i, p := range n.Partitions {
		if p == opts.DefaultPartition && opts.DefaultPartition != "" {
			p += "*"
		}
		parts[i] = p
	}

	gpu := "-"
	if n.GPUsTotal > 0 {
		gpu = fmt.Sprintf("%d/%d (%s)", n.GPUsAlloc, n.GPUsTotal, percent(n.GPUUtil))
	}

	return []string{
		name,
		strings.Join(parts, ","),
		n.State.String(),
		fmt.Sprintf("%d/%d (%s)", n.CPUsAlloc, n.CPUsTotal, percent(n.CPUUtil)),
		fmt.Sprintf("%d/%d (%s)", n.MemAllocMB, n.MemTotalMB, percent(n.MemUtil)),
		gpu,
		fmt.Sprintf("%d/%d", n.RunningJobs, n.QueuedJobs),
	}
}

// gpuStyled colors the GPU cell by utilization, leaving the "-" placeholder
// for GPU-less nodes unstyled.
func gpuStyled(n *slurm.NodeRecord, cell string, s Styles) string {
	if n.GPUsTotal == 0 {
		return cell
	}
	return s.Util(n.GPUUtil).Render(cell)
}
