package render

import (
	"fmt"
	"strings"

	"github.com/rice8y/sdetails/internal/metrics"
	"github.com/rice8y/sdetails/internal/slurm"
)

// Summary renders the cluster-wide header block. It always reflects the
// full unfiltered node set, whatever partition filter the table uses.
func Summary(sum metrics.Summary, s Styles) string {
	var b strings.Builder

	b.WriteString(s.Title.Render("=== Cluster Summary ===") + "\n")

	b.WriteString(fmt.Sprintf("Nodes: %s (idle: %s, mixed: %s, allocated: %s, down: %s)\n",
		s.Bold.Render(fmt.Sprintf("%d", sum.Nodes)),
		s.Good.Render(fmt.Sprintf("%d", sum.States[slurm.StateIdle])),
		s.Neutral.Render(fmt.Sprintf("%d", sum.States[slurm.StateMixed])),
		s.Neutral.Render(fmt.Sprintf("%d", sum.States[slurm.StateAllocated])),
		s.Attention.Render(fmt.Sprintf("%d", downCount(sum)))))

	b.WriteString(fmt.Sprintf("CPUs: %d/%d allocated (%s)\n",
		sum.CPUsAlloc, sum.CPUsTotal,
		s.Util(sum.CPUUtil).Render(percent(sum.CPUUtil))))

	b.WriteString(fmt.Sprintf("Memory: %s/%s allocated (%s)\n",
		humanizeMB(sum.MemAllocMB), humanizeMB(sum.MemTotalMB),
		s.Util(sum.MemUtil).Render(percent(sum.MemUtil))))

	if sum.GPUsTotal > 0 {
		b.WriteString(fmt.Sprintf("GPUs: %d/%d allocated (%s)\n",
			sum.GPUsAlloc, sum.GPUsTotal,
			s.Util(sum.GPUUtil).Render(percent(sum.GPUUtil))))
	}

	b.WriteString(fmt.Sprintf("Jobs: %s running, %s queued\n",
		s.Bold.Render(fmt.Sprintf("%d", sum.RunningJobs)),
		s.Bold.Render(fmt.Sprintf("%d", sum.QueuedJobs))))

	if sum.Degraded > 0 {
		b.WriteString(s.Muted.Render(fmt.Sprintf("%d node(s) reported unparseable fields", sum.Degraded)) + "\n")
	}

	return b.String()
}

// downCount folds the unavailable states into the single "down" figure the
// summary line shows.
func downCount(sum metrics.Summary) int {
	return sum.States[slurm.StateDown] +
		sum.States[slurm.StateDrained] +
		sum.States[slurm.StateDraining]
}
