package render

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sderrors "github.com/rice8y/sdetails/internal/errors"
	"github.com/rice8y/sdetails/internal/metrics"
	"github.com/rice8y/sdetails/internal/slurm"
	"github.com/rice8y/sdetails/internal/view"
)

func TestBuildExport(t *testing.T) {
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	doc := BuildExport([]slurm.NodeRecord{mixedNode()}, testSummary(), "gpu", view.SortCPU, false, at)

	assert.Equal(t, at, doc.GeneratedAt)
	assert.False(t, doc.Stale)
	require.NotNil(t, doc.Filter)
	assert.Equal(t, "gpu", *doc.Filter)
	assert.Equal(t, "cpu", doc.Sort)

	require.Len(t, doc.Nodes, 1)
	n := doc.Nodes[0]
	assert.Equal(t, "n1", n.Name)
	assert.Equal(t, "mixed", n.State)
	assert.Equal(t, ExportResource{Total: 8, Allocated: 4, Utilization: 0.5}, n.CPU)
	assert.Equal(t, ExportResource{Total: 32000, Allocated: 16000, Utilization: 0.5}, n.Memory)
	assert.Equal(t, 2, n.RunningJobs)

	assert.Equal(t, 4, doc.Summary.Nodes)
	assert.Equal(t, 1, doc.Summary.States["drained"])
}

func TestBuildExport_NoFilterIsNull(t *testing.T) {
	doc := BuildExport(nil, metrics.Summary{}, "", view.SortName, false, time.Now())

	assert.Nil(t, doc.Filter)
	assert.NotNil(t, doc.Nodes, "nodes must encode as [] not null")

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"filter":null`)
	assert.Contains(t, string(data), `"nodes":[]`)
}

func TestWriteExport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	at := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	doc := BuildExport([]slurm.NodeRecord{mixedNode()}, testSummary(), "gpu", view.SortName, true, at)

	require.NoError(t, WriteExport(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got ExportDocument
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc, got)
	assert.True(t, got.Stale)
}

func TestWriteExport_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.json")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	require.NoError(t, WriteExport(path, BuildExport(nil, metrics.Summary{}, "", view.SortName, false, time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old contents")
}

func TestWriteExport_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nodes.json")

	require.NoError(t, WriteExport(path, BuildExport(nil, metrics.Summary{}, "", view.SortName, false, time.Now())))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nodes.json", entries[0].Name())
}

func TestWriteExport_BadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "nodes.json")

	err := WriteExport(path, ExportDocument{})
	require.Error(t, err)
	assert.True(t, sderrors.IsCode(err, sderrors.ErrExport))
}
