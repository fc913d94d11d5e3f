package slurm

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rice8y/sdetails/internal/errors"
	"github.com/rice8y/sdetails/internal/logger"
)

// sinfoFormat selects the per-node columns the parser expects.
const sinfoFormat = "--Format=Partition,NodeHost,StateCompact,CPUsState,AllocMem,Memory,Gres,GresUsed"

// squeueFormat yields "jobid state partition nodelist" per job, no header.
var squeueArgs = []string{"-h", "-o", "%i %t %P %N"}

// Source supplies one point-in-time batch of raw node data.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// CommandSource fetches cluster state by running the Slurm client tools as
// subprocesses. Each fetch is bounded by Timeout so a hung scheduler cannot
// stall the refresh loop.
type CommandSource struct {
	SinfoCmd  []string // command + extra args, default {"sinfo"}
	SqueueCmd []string // default {"squeue"}
	Timeout   time.Duration
	Log       logger.Logger

	// runner is swapped out in tests to avoid real subprocesses.
	runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultFetchTimeout bounds one sinfo/squeue invocation.
const DefaultFetchTimeout = 10 * time.Second

// NewCommandSource creates a source running the standard sinfo and squeue
// binaries found on PATH.
func NewCommandSource(timeout time.Duration, log logger.Logger) *CommandSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &CommandSource{
		SinfoCmd:  []string{"sinfo"},
		SqueueCmd: []string{"squeue"},
		Timeout:   timeout,
		Log:       log,
		runner:    runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Fetch runs sinfo (and squeue for job counts) and returns the raw snapshot.
// A sinfo failure or empty result is a SOURCE error; squeue problems only
// cost the job-count columns and are logged, not escalated.
func (s *CommandSource) Fetch(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	args := append(append([]string{}, s.SinfoCmd[1:]...), sinfoFormat)
	out, err := s.runner(ctx, s.SinfoCmd[0], args...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSource,
			"Failed to run sinfo",
			"Check that the Slurm client tools are installed and on PATH")
	}

	snap := &Snapshot{
		FetchedAt:         time.Now(),
		RunningByNode:     make(map[string]int),
		QueuedByPartition: make(map[string]int),
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return nil, errors.New(errors.ErrSource,
			"sinfo returned no node data",
			"Check that the cluster has nodes configured and sinfo works by hand")
	}

	// First line is the column header.
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 8 {
			s.Log.Debug("skipping short sinfo row: %q", line)
			continue
		}
		snap.Rows = append(snap.Rows, RawNode{
			Partition: fields[0],
			Name:      fields[1],
			State:     fields[2],
			CPUs:      fields[3],
			AllocMem:  fields[4],
			Memory:    fields[5],
			Gres:      fields[6],
			GresUsed:  fields[7],
		})
	}

	if len(snap.Rows) == 0 {
		return nil, errors.New(errors.ErrSource,
			"sinfo returned no parseable node rows",
			"Run sinfo by hand and check its output format")
	}

	s.fetchQueueCounts(ctx, snap)
	return snap, nil
}

// fetchQueueCounts fills running-per-node and queued-per-partition counts
// from squeue. Failures here degrade the display, not the fetch.
func (s *CommandSource) fetchQueueCounts(ctx context.Context, snap *Snapshot) {
	out, err := s.runner(ctx, s.SqueueCmd[0], append(append([]string{}, s.SqueueCmd[1:]...), squeueArgs...)...)
	if err != nil {
		s.Log.Warn("squeue failed, job counts unavailable: %v", err)
		return
	}

	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		state, partition := fields[1], fields[2]
		switch state {
		case "R":
			if len(fields) < 4 {
				continue
			}
			for _, node := range strings.Split(fields[3], ",") {
				if node = strings.TrimSpace(node); node != "" {
					snap.RunningByNode[node]++
				}
			}
		case "PD":
			snap.QueuedByPartition[partition]++
		}
	}
}
