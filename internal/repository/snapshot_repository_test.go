package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sla.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSnapshotFetchAll(t *testing.T) {
	path := writeSnapshot(t, "no,status,sla_total\nT-1,อบรม,12\nT-2,ขึ้นทะเบียนเรียบร้อย,40\n")
	repo := NewSnapshotRepository(path)

	records, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "T-1", records[0]["no"])
	assert.Equal(t, "อบรม", records[0]["status"])
	assert.Equal(t, "40", records[1]["sla_total"])
}

func TestSnapshotTrimsBOMHeader(t *testing.T) {
	path := writeSnapshot(t, "\uFEFFno,status\nT-1,อบรม\n")
	repo := NewSnapshotRepository(path)

	records, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "T-1", records[0]["no"])
}

func TestSnapshotRaggedRows(t *testing.T) {
	path := writeSnapshot(t, "no,status,sla_total\nT-1,อบรม\nT-2,OJT,7,extra\n")
	repo := NewSnapshotRepository(path)

	records, err := repo.FetchAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Short rows leave trailing columns absent.
	_, present := records[0]["sla_total"]
	assert.False(t, present)
	// Long rows drop the surplus.
	assert.Equal(t, "7", records[1]["sla_total"])
}

func TestSnapshotEmptyValuesOmitted(t *testing.T) {
	path := writeSnapshot(t, "no,status\nT-1, \n")
	repo := NewSnapshotRepository(path)

	records, err := repo.FetchAll()
	require.NoError(t, err)
	_, present := records[0]["status"]
	assert.False(t, present)
}

func TestSnapshotMissingFile(t *testing.T) {
	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := repo.FetchAll()
	assert.Error(t, err)
}

func TestSnapshotEmptyPath(t *testing.T) {
	repo := NewSnapshotRepository("")
	_, err := repo.FetchAll()
	assert.Error(t, err)
}
