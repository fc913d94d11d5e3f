package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rice8y/sdetails/internal/errors"
	"github.com/rice8y/sdetails/internal/metrics"
	"github.com/rice8y/sdetails/internal/slurm"
	"github.com/rice8y/sdetails/internal/view"
)

// ExportDocument is the machine-readable contract. Field names and types
// are stable across versions; consumers round-trip it without loss.
type ExportDocument struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Stale       bool          `json:"stale"`
	Filter      *string       `json:"filter"`
	Sort        string        `json:"sort"`
	Summary     ExportSummary `json:"summary"`
	Nodes       []ExportNode  `json:"nodes"`
}

// ExportResource is one resource dimension: allocated out of total, plus
// the derived utilization ratio.
type ExportResource struct {
	Total       int     `json:"total"`
	Allocated   int     `json:"allocated"`
	Utilization float64 `json:"utilization"`
}

// ExportSummary mirrors metrics.Summary with stable field names.
type ExportSummary struct {
	Nodes       int            `json:"nodes"`
	States      map[string]int `json:"states"`
	Degraded    int            `json:"degraded"`
	CPU         ExportResource `json:"cpu"`
	Memory      ExportResource `json:"memoryMB"`
	GPU         ExportResource `json:"gpu"`
	RunningJobs int            `json:"runningJobs"`
	QueuedJobs  int            `json:"queuedJobs"`
}

// ExportNode is one rendered node record, derived fields included.
type ExportNode struct {
	Name        string         `json:"name"`
	Partitions  []string       `json:"partitions"`
	State       string         `json:"state"`
	Degraded    bool           `json:"degraded"`
	CPU         ExportResource `json:"cpu"`
	Memory      ExportResource `json:"memoryMB"`
	GPU         ExportResource `json:"gpu"`
	RunningJobs int            `json:"runningJobs"`
	QueuedJobs  int            `json:"queuedJobs"`
}

// BuildExport assembles the export payload from the same filtered/sorted
// sequence and summary the terminal renderer consumes.
func BuildExport(nodes []slurm.NodeRecord, sum metrics.Summary, filter string, sortKey view.SortKey, stale bool, at time.Time) ExportDocument {
	doc := ExportDocument{
		GeneratedAt: at,
		Stale:       stale,
		Sort:        string(sortKey),
		Summary:     exportSummary(sum),
		Nodes:       make([]ExportNode, 0, len(nodes)),
	}
	if filter != "" {
		doc.Filter = &filter
	}

	for i := range nodes {
		n := &nodes[i]
		doc.Nodes = append(doc.Nodes, ExportNode{
			Name:        n.Name,
			Partitions:  n.Partitions,
			State:       n.State.String(),
			Degraded:    n.Degraded,
			CPU:         ExportResource{Total: n.CPUsTotal, Allocated: n.CPUsAlloc, Utilization: n.CPUUtil},
			Memory:      ExportResource{Total: n.MemTotalMB, Allocated: n.MemAllocMB, Utilization: n.MemUtil},
			GPU:         ExportResource{Total: n.GPUsTotal, Allocated: n.GPUsAlloc, Utilization: n.GPUUtil},
			RunningJobs: n.RunningJobs,
			QueuedJobs:  n.QueuedJobs,
		})
	}

	return doc
}

func exportSummary(sum metrics.Summary) ExportSummary {
	states := make(map[string]int, len(sum.States))
	for st, c := range sum.States {
		states[st.String()] = c
	}
	return ExportSummary{
		Nodes:       sum.Nodes,
		States:      states,
		Degraded:    sum.Degraded,
		CPU:         ExportResource{Total: sum.CPUsTotal, Allocated: sum.CPUsAlloc, Utilization: sum.CPUUtil},
		Memory:      ExportResource{Total: sum.MemTotalMB, Allocated: sum.MemAllocMB, Utilization: sum.MemUtil},
		GPU:         ExportResource{Total: sum.GPUsTotal, Allocated: sum.GPUsAlloc, Utilization: sum.GPUUtil},
		RunningJobs: sum.RunningJobs,
		QueuedJobs:  sum.QueuedJobs,
	}
}

// WriteExport writes the document to path atomically: the JSON is staged in
// a temp file in the target directory and renamed into place, so a reader
// or an interrupt never sees a partial file.
func WriteExport(path string, doc ExportDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Failed to encode export data",
			"This is a bug; please report it")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExport,
			"Failed to create export file in "+dir,
			"Check the directory exists and is writable")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrExport,
			"Failed to write export file "+path,
			"Check free disk space and permissions")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrExport,
			"Failed to write export file "+path,
			"Check free disk space and permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.WrapWithCode(err, errors.ErrExport,
			"Failed to move export file into place at "+path,
			"Check permissions on the target directory")
	}

	return nil
}
